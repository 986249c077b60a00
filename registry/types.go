package registry

// OwnerKind tells which kind of entity declares the scope vocabulary
type OwnerKind string

const (
	// ConnectorOwner scopes belong to a platform connector
	ConnectorOwner OwnerKind = "connector"
	// ProviderOwner scopes belong to an app block acting as provider
	ProviderOwner OwnerKind = "provider"
)

// Scope is the read-side projection of a declared capability
type Scope struct {
	Name         string
	Description  *string
	IsPublicRead bool
	RequiredRole *string
}
