package model

// Content is a flexible map representing a CMS content item body as returned
// by the content delivery API. Fields depend on the item's schema; the
// delivery envelope lives under the "_meta" key.
// Example: content["image"], content["cta"]
type Content map[string]interface{}

// meta returns the "_meta" envelope map, or nil when absent or malformed.
func (c Content) meta() map[string]interface{} {
	if raw, ok := c["_meta"]; ok {
		if m, mok := raw.(map[string]interface{}); mok {
			return m
		}
	}
	return nil
}

func (c Content) metaString(key string) string {
	if m := c.meta(); m != nil {
		if v, ok := m[key]; ok {
			if s, sok := v.(string); sok {
				return s
			}
		}
	}
	return ""
}

// Schema returns the content item's schema identifier, or "" when the
// delivery envelope is missing or malformed.
func (c Content) Schema() string {
	return c.metaString("schema")
}

// DeliveryID returns the content item's delivery id, or "".
func (c Content) DeliveryID() string {
	return c.metaString("deliveryId")
}

// DeliveryKey returns the content item's delivery key, or "".
func (c Content) DeliveryKey() string {
	return c.metaString("deliveryKey")
}

// Name returns the content item's authored name, or "".
func (c Content) Name() string {
	return c.metaString("name")
}
