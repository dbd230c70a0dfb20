package schemaregistry

import "encoding/base64"

// basicToken builds the base64(user:pass) token used in the
// Authorization: Basic header.
func basicToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
