// README: Base64 helper for CLI attachments.
package main

import "encoding/base64"

func encode(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}
