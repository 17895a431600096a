// This file contains methods for governor-configurable settings.
package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Setting keys.
const (
	settingMaxRecordAge = "max_record_age_seconds"
	settingCallBudget   = "call_budget_ms"
	settingChainID      = "chain_id"
	settingVerifierAddr = "verifier_address"
)

// SetSetting stores a raw setting value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting retrieves a raw setting value. Returns ok=false if unset.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// MaxRecordAge returns the governor-configured maximum attestation age.
// Zero means unlimited.
func (s *Store) MaxRecordAge() (time.Duration, error) {
	return s.durationSetting(settingMaxRecordAge, time.Second, 0)
}

// SetMaxRecordAge stores the maximum attestation age. Zero disables the check.
func (s *Store) SetMaxRecordAge(d time.Duration) error {
	return s.SetSetting(settingMaxRecordAge, strconv.FormatInt(int64(d/time.Second), 10))
}

// CallBudget returns the per-call resource ceiling for delegated provider
// calls. Defaults to 5 seconds when unset.
func (s *Store) CallBudget() (time.Duration, error) {
	return s.durationSetting(settingCallBudget, time.Millisecond, 5*time.Second)
}

// SetCallBudget stores the per-call resource ceiling.
func (s *Store) SetCallBudget(d time.Duration) error {
	return s.SetSetting(settingCallBudget, strconv.FormatInt(int64(d/time.Millisecond), 10))
}

// ChainID returns the configured ledger network identifier.
func (s *Store) ChainID() (string, error) {
	v, ok, err := s.GetSetting(settingChainID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "local-1", nil
	}
	return v, nil
}

// SetChainID stores the ledger network identifier.
func (s *Store) SetChainID(id string) error {
	return s.SetSetting(settingChainID, id)
}

// VerifierAddress returns the configured ledger-verification-service address.
func (s *Store) VerifierAddress() (string, error) {
	v, ok, err := s.GetSetting(settingVerifierAddr)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// SetVerifierAddress stores the ledger-verification-service address.
func (s *Store) SetVerifierAddress(addr string) error {
	return s.SetSetting(settingVerifierAddr, addr)
}

func (s *Store) durationSetting(key string, unit time.Duration, fallback time.Duration) (time.Duration, error) {
	v, ok, err := s.GetSetting(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for setting %s: %w", key, err)
	}
	return time.Duration(n) * unit, nil
}
