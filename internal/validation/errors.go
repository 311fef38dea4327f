package validation

import "strings"

// FieldError is one failing form field and the message shown next to it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is the ordered list of failing fields for a form submission.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// For returns the message for field, or "" when the field passed.
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Banner returns the single form-level message for forms that report one
// error at a time. A blank field wins over any shape error.
func (e Errors) Banner() string {
	for _, fe := range e {
		if fe.Message == MsgRequired {
			return MsgRequired
		}
	}
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

// Map returns field -> message, for templates.
func (e Errors) Map() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}
