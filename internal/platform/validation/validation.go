package validation

// Error membawa pesan untuk pengguna plus peta kesalahan per field,
// bentuk yang sama dengan respons error API.
type Error struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors,omitempty"`
}

func NewError(message string) *Error {
	return &Error{Message: message, Fields: map[string][]string{}}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil mengembalikan nil kalau tidak ada kesalahan field yang tercatat.
func (e *Error) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
