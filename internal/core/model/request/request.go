package request

// Field names read from decoded JSON payloads.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Required fields per operation, checked in this order.
var (
	CreateUserFields = []string{FieldName, FieldEmail, FieldPassword}
	LoginFields      = []string{FieldEmail, FieldPassword}
)

// UpdatableFields are the keys an update may change.
var UpdatableFields = []string{FieldName, FieldEmail}
