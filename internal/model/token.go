package model

// TabTokenManager issues and validates the token identifying a browsing tab.
type TabTokenManager interface {
	GenerateTabToken(tabID string) (string, error)
	ParseTabToken(token string) (string, error)
}
