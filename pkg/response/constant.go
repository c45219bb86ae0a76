package response

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	ValidationErrorCode     = 400
	InternalServerErrorCode = 500
	UnavailableErrorCode    = 503
)
