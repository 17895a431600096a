package authz

import "github.com/cedar-policy/cedar-go"

// NewAccountEntity constructs a Cedar entity for an account principal.
// The account's owned documents become its Parents in the entity graph.
func NewAccountEntity(accountID string, role Role, documents []string) cedar.Entity {
	accountUID := cedar.NewEntityUID("Account", cedar.String(accountID))

	var parents cedar.EntityUIDSet
	if len(documents) > 0 {
		docUIDs := make([]cedar.EntityUID, 0, len(documents))
		for _, d := range documents {
			docUIDs = append(docUIDs, cedar.NewEntityUID("Document", cedar.String(d)))
		}
		parents = cedar.NewEntityUIDSet(docUIDs...)
	} else {
		parents = cedar.NewEntityUIDSet()
	}

	docSet := make([]cedar.Value, 0, len(documents))
	for _, d := range documents {
		docSet = append(docSet, cedar.String(d))
	}

	return cedar.Entity{
		UID:     accountUID,
		Parents: parents,
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"role":      cedar.String(string(role)),
			"documents": cedar.NewSet(docSet...),
		}),
	}
}

// NewDocumentEntity constructs a Cedar entity for a document.
// Documents are top-level containers with no parents.
func NewDocumentEntity(documentID, owner string) cedar.Entity {
	docUID := cedar.NewEntityUID("Document", cedar.String(documentID))

	return cedar.Entity{
		UID:     docUID,
		Parents: cedar.NewEntityUIDSet(),
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"owner": cedar.String(owner),
		}),
	}
}

// NewResourceEntity constructs a generic Cedar entity for any resource type.
// Use this for resources like Provider, Settings, Audit. The documentID
// establishes the resource's Parent relationship when present.
func NewResourceEntity(resourceType, resourceID, documentID string) cedar.Entity {
	resourceUID := cedar.NewEntityUID(cedar.EntityType(resourceType), cedar.String(resourceID))

	var parents cedar.EntityUIDSet
	if documentID != "" {
		parents = cedar.NewEntityUIDSet(cedar.NewEntityUID("Document", cedar.String(documentID)))
	} else {
		parents = cedar.NewEntityUIDSet()
	}

	return cedar.Entity{
		UID:     resourceUID,
		Parents: parents,
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"document": cedar.String(documentID),
		}),
	}
}

// buildEntities constructs the Cedar EntityMap from principal and resource.
// This creates the entity graph that Cedar uses to evaluate policies.
func buildEntities(principal Principal, resource Resource) cedar.EntityMap {
	entities := cedar.EntityMap{}

	principalUID := cedar.NewEntityUID(cedar.EntityType(principal.Type), cedar.String(principal.UID))

	var principalParents cedar.EntityUIDSet
	if len(principal.Documents) > 0 {
		docUIDs := make([]cedar.EntityUID, 0, len(principal.Documents))
		for _, d := range principal.Documents {
			docUID := cedar.NewEntityUID("Document", cedar.String(d))
			docUIDs = append(docUIDs, docUID)
			if _, exists := entities[docUID]; !exists {
				entities[docUID] = cedar.Entity{
					UID:        docUID,
					Parents:    cedar.NewEntityUIDSet(),
					Attributes: cedar.NewRecord(cedar.RecordMap{}),
				}
			}
		}
		principalParents = cedar.NewEntityUIDSet(docUIDs...)
	} else {
		principalParents = cedar.NewEntityUIDSet()
	}

	docSet := make([]cedar.Value, 0, len(principal.Documents))
	for _, d := range principal.Documents {
		docSet = append(docSet, cedar.String(d))
	}

	entities[principalUID] = cedar.Entity{
		UID:     principalUID,
		Parents: principalParents,
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"role":      cedar.String(string(principal.Role)),
			"documents": cedar.NewSet(docSet...),
		}),
	}

	resourceUID := cedar.NewEntityUID(cedar.EntityType(resource.Type), cedar.String(resource.UID))

	var resourceParents cedar.EntityUIDSet
	if resource.DocumentID != "" {
		docUID := cedar.NewEntityUID("Document", cedar.String(resource.DocumentID))
		resourceParents = cedar.NewEntityUIDSet(docUID)
		if _, exists := entities[docUID]; !exists {
			entities[docUID] = cedar.Entity{
				UID:        docUID,
				Parents:    cedar.NewEntityUIDSet(),
				Attributes: cedar.NewRecord(cedar.RecordMap{}),
			}
		}
	} else {
		resourceParents = cedar.NewEntityUIDSet()
	}

	entities[resourceUID] = cedar.Entity{
		UID:     resourceUID,
		Parents: resourceParents,
		Attributes: cedar.NewRecord(cedar.RecordMap{
			"document": cedar.String(resource.DocumentID),
		}),
	}

	return entities
}

// buildCedarRequest constructs the Cedar request from a Request.
// This maps the application-level request to Cedar's evaluation format.
func buildCedarRequest(req Request) cedar.Request {
	contextMap := cedar.RecordMap{}

	if state, ok := req.Context["issuer_state"].(IssuerState); ok {
		contextMap["issuer_state"] = cedar.String(string(state))
	} else if stateStr, ok := req.Context["issuer_state"].(string); ok {
		contextMap["issuer_state"] = cedar.String(stateStr)
	}

	if isOwner, ok := req.Context["principal_is_owner"].(bool); ok {
		contextMap["principal_is_owner"] = cedar.Boolean(isOwner)
	}

	return cedar.Request{
		Principal: cedar.NewEntityUID(cedar.EntityType(req.Principal.Type), cedar.String(req.Principal.UID)),
		Action:    cedar.NewEntityUID("Action", cedar.String(req.Action)),
		Resource:  cedar.NewEntityUID(cedar.EntityType(req.Resource.Type), cedar.String(req.Resource.UID)),
		Context:   cedar.NewRecord(contextMap),
	}
}
