// Package domain defines the categories of sensitive content the classifier
// recognizes and the severity attached to each.
package domain

// Category identifies a kind of secret found in text.
type Category string

const (
	APIKey             Category = "api_key"
	Password           Category = "password"
	CreditCard         Category = "credit_card"
	NationalID         Category = "national_id"
	PrivateKey         Category = "private_key"
	CloudProviderKey   Category = "cloud_provider_key"
	SignedToken        Category = "signed_token"
	SourceHostingToken Category = "source_hosting_token"
	ChatToken          Category = "chat_token"
	EmailCredential    Category = "email_credential"
	DatabaseCredential Category = "database_credential"
	IPAddress          Category = "ip_address"
	BearerToken        Category = "bearer_token"
)

// Categories lists every category in rule-table order.
var Categories = []Category{
	APIKey,
	Password,
	CreditCard,
	NationalID,
	PrivateKey,
	CloudProviderKey,
	SignedToken,
	SourceHostingToken,
	ChatToken,
	EmailCredential,
	DatabaseCredential,
	IPAddress,
	BearerToken,
}

var categorySeverity = map[Category]Severity{
	APIKey:             SeverityHigh,
	Password:           SeverityHigh,
	CreditCard:         SeverityCritical,
	NationalID:         SeverityHigh,
	PrivateKey:         SeverityCritical,
	CloudProviderKey:   SeverityCritical,
	SignedToken:        SeverityHigh,
	SourceHostingToken: SeverityHigh,
	ChatToken:          SeverityHigh,
	EmailCredential:    SeverityHigh,
	DatabaseCredential: SeverityCritical,
	IPAddress:          SeverityLow,
	BearerToken:        SeverityHigh,
}

// Severity returns the fixed severity of the category. Unknown categories are low.
func (c Category) Severity() Severity {
	if s, ok := categorySeverity[c]; ok {
		return s
	}
	return SeverityLow
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categorySeverity[c]
	return ok
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case APIKey:
		return "API Key"
	case Password:
		return "Password"
	case CreditCard:
		return "Credit Card"
	case NationalID:
		return "National ID"
	case PrivateKey:
		return "Private Key"
	case CloudProviderKey:
		return "Cloud Provider Key"
	case SignedToken:
		return "Signed Token"
	case SourceHostingToken:
		return "Source Hosting Token"
	case ChatToken:
		return "Chat Token"
	case EmailCredential:
		return "Email Credential"
	case DatabaseCredential:
		return "Database Credential"
	case IPAddress:
		return "IP Address"
	case BearerToken:
		return "Bearer Token"
	default:
		return string(c)
	}
}
