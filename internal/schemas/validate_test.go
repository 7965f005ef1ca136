package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResponseSchema_IsValidJSON(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal(RegistryResponse(), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestRegistryResponseValidator(t *testing.T) {
	v, err := NewRegistryResponseValidator()
	require.NoError(t, err)

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{
			name: "success with record",
			body: `{"result":"success","records":{"123456789":{"title":"Acme","address":"Main St","pc4":"1000","pc3":"001","city":"Lisbon","contacts":{"email":"a@b.com","phone":"912345678"}}},"credits":{"used":"free","left":{"month":100,"day":10,"hour":1}}}`,
			valid: true,
		},
		{
			name:  "error message",
			body:  `{"result":"error","message":"No records found"}`,
			valid: true,
		},
		{
			name:  "records as empty array",
			body:  `{"result":"success","records":[]}`,
			valid: true,
		},
		{
			name:  "numeric postal code",
			body:  `{"result":"success","records":{"1":{"title":"X","pc4":1000,"pc3":1}}}`,
			valid: true,
		},
		{
			name:  "malformed credits still valid",
			body:  `{"result":"success","credits":"unlimited"}`,
			valid: true,
		},
		{
			name:  "missing result",
			body:  `{"message":"oops"}`,
			valid: false,
		},
		{
			name:  "title wrong type",
			body:  `{"result":"success","records":{"1":{"title":42}}}`,
			valid: false,
		},
		{
			name:  "record not an object",
			body:  `{"result":"success","records":{"1":"Acme"}}`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.body))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidator_UnparseableDocument(t *testing.T) {
	v, err := NewRegistryResponseValidator()
	require.NoError(t, err)

	err = v.Validate([]byte(`{not json`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestNewValidator_InvalidSchema(t *testing.T) {
	_, err := NewValidator("broken", []byte(`{"type": "nonsense"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
