package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// payloadSchemas holds the compiled request schemas, keyed by name. Mutating
// payloads are validated wholesale before decode-and-dispatch, so closed-enum
// and required-field violations never reach a handler.
var payloadSchemas = map[string]*jsonschema.Schema{}

func init() {
	for _, name := range []string{"assign", "save", "progress", "feedback"} {
		b, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("read schema %s: %v", name, err))
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			panic(fmt.Sprintf("compile schema %s: %v", name, err))
		}
		payloadSchemas[name] = rs
	}
}

// maxRequestBody caps request payload reads.
const maxRequestBody = 64 * 1024

// validateBody reads the request body, validates it against the named schema
// and returns the raw bytes for decoding. A schema violation message is
// returned for the client; a nil message means the payload passed.
func validateBody(ctx context.Context, r *http.Request, schema string) ([]byte, string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxRequestBody {
		return nil, "request body too large", nil
	}

	rs, ok := payloadSchemas[schema]
	if !ok {
		return nil, "", fmt.Errorf("unknown schema %q", schema)
	}

	keyErrs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return nil, "invalid json", nil
	}
	if len(keyErrs) > 0 {
		return nil, keyErrs[0].Error(), nil
	}

	return body, "", nil
}
