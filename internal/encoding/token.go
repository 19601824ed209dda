package encoding

// TokenSink receives structural events from the Lexer in document order.
// Names and scalar values arrive already unquoted; nesting is conveyed purely
// through the Start/End pairs.
type TokenSink interface {
	OnStartObject()
	OnEndObject()
	OnStartArray()
	OnEndArray()
	OnName(name string)
	OnString(value string)
	OnInt(value int64)
	OnFloat(value float64)
	OnBool(value bool)
	OnNull()
}
