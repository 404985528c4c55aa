package model

// Site is one storefront site: a brand or region cut of the catalog with its
// own locale, currency, and CMS slot namespace. Sites are defined in
// configuration and fixed for the life of the process.
type Site struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DefaultLocale string `json:"default_locale"`
	Currency      string `json:"currency"`

	// Upstream identifiers; not part of the public API surface.
	CommerceSiteID string `json:"-"`
	SlotKeyPrefix  string `json:"-"`
}
