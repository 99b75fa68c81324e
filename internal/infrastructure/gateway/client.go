// Package gateway contains HTTP clients for the sibling services this
// service snapshots data from: the tenant profile service, the customer
// directory, and the product catalog. Each client forwards the caller's
// bearer token so upstream tenancy checks keep working.
package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseSize caps upstream response bodies (1MB)
const maxResponseSize = 1 << 20

// authorize sets the forwarded bearer token on an upstream request
func authorize(req *http.Request, token string) {
	if token == "" {
		return
	}
	if !strings.HasPrefix(token, "Bearer ") {
		token = "Bearer " + token
	}
	req.Header.Set("Authorization", token)
}

// decodeResponse decodes a JSON body into target, enforcing the size cap
func decodeResponse(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
