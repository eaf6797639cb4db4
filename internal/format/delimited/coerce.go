package delimited

import (
	"formats/internal/records"
	"formats/internal/schema"
)

// coerce applies one raw token to one schema field on the builder.
//
// An empty token always becomes a nil value and skips type validation
// entirely, regardless of declared nullability; if the field is not
// nullable the builder's Build step rejects the record. For fields with a
// date/time logical annotation the token must parse as the corresponding
// ISO-8601 local layout, otherwise a *records.InvalidDateTimeError is
// returned and assembly of the record aborts. All remaining type
// conversion is delegated to the record builder.
func coerce(b *records.Builder, f schema.Field, token string) error {
	if token == "" {
		return b.Set(f.Name, nil)
	}
	if err := records.ValidateDateTime(f, token); err != nil {
		return err
	}
	return b.Convert(f.Name, token)
}
