package resolver

import "github.com/tidwall/gjson"

var identityFields = []string{"id", "userId", "user_id", "customerId", "customer_id", "contactId", "contact_id", "uid"}

// identityRoots are tried in order: the document itself, nested user and customer
// objects, the first element of a list, then the same shapes under a data wrapper.
var identityRoots = []string{"", "user", "customer", "0", "data", "data.user", "data.customer", "data.0"}

// ExtractIdentity finds the first identity value in a resolver endpoint's JSON answer.
func ExtractIdentity(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	doc := gjson.ParseBytes(body)
	for _, root := range identityRoots {
		node := doc
		if root != "" {
			node = doc.Get(root)
		}
		if !node.IsObject() {
			continue
		}
		for _, field := range identityFields {
			v := node.Get(field)
			if v.Type != gjson.String && v.Type != gjson.Number {
				continue
			}
			if s := v.String(); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
