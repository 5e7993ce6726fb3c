package scoring

// Kind classifies a failed prediction.
type Kind string

const (
	// KindTransport: the request never produced an HTTP response.
	KindTransport Kind = "transport"
	// KindValidation: the backend rejected the payload with a per-field list.
	KindValidation Kind = "validation"
	// KindServer: any other non-2xx response.
	KindServer Kind = "server"
	// KindMalformed: a 2xx response whose body is not a complete result.
	KindMalformed Kind = "malformed"
)

const (
	MessageTransport = "Failed to get prediction. Please ensure the API server is running."
	MessageFailed    = "Prediction failed"
	MessageMalformed = "Prediction failed: unexpected response from scoring service"
)

// PredictionError is returned by Predict for every failure. Error() is the
// message shown to the applicant.
type PredictionError struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *PredictionError) Error() string {
	return e.Message
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
