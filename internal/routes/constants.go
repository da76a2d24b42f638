package routes

var (
	SignupDurationSecondsBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	LoginDurationSecondsBuckets  = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	FundDurationSecondsBuckets   = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

const (
	// API route constants
	MetricsRouteAPI = "/metrics"
	SignupRouteAPI  = "/signup"
	LoginRouteAPI   = "/login"
	LogoutRouteAPI  = "/logout"
	MeRouteAPI      = "/me"
	RTIRouteAPI     = "/rti"
	RTIItemRouteAPI = "/rti/{id}"
	FundRouteAPI    = "/rti/fund/{id}"

	// Session cookie
	SessionCookieName = "session_token"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// message constants
	MsgSignupSuccessful     = "Signup successful, Welcome to RTI Man!"
	MsgLoginSuccessful      = "Login successful!"
	MsgLogoutSuccessful     = "Bye Bye, Have a nice day!"
	MsgRTICreatedSuccessful = "RTI query request submitted successfully. Share it on social media."
	MsgFundSuccessful       = "RTI funded successfully :-)"

	// Error messages
	ErrMethodNotAllowed       = "method not allowed"
	ErrInvalidContentType     = "content-Type must be application/json"
	ErrInvalidRequestBody     = "invalid request body"
	ErrValidationFailed       = "data validation failed"
	ErrFailedToRegister       = "failed to register account"
	ErrFailedToEncodeResponse = "failed to encode response"
	ErrFailedToGenerateToken  = "failed to generate session token"
	ErrInvalidCredentials     = "invalid username or password"
	ErrLoginRequired          = "please log in"
	ErrRTINotFound            = "you are trying to fund a non existent RTI #FML"
	ErrEnterValidAmount       = "enter a valid number of credits"
	ErrAmountTooSmall         = "minimum fund value is 10"
	ErrCannotOverfund         = "you cannot fund more than the credits you have. Please buy credits"
	ErrFundConflict           = "funding hit a concurrent update, please try again"
	ErrFundUnavailable        = "funding is temporarily unavailable, please try again later"
	ErrFailedToCreateRTI      = "failed to create rti request"
	ErrFailedToListRTI        = "failed to list rti requests"

	// metrics constants
	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"

	LoginRequestsTotal       = "login_requests_total"
	LoginRequestsTotalHelp   = "Total number of login requests received"
	LoginSuccessTotal        = "login_success_total"
	LoginSuccessTotalHelp    = "Total number of successful login requests"
	LoginFailedTotal         = "login_failed_total"
	LoginFailedTotalHelp     = "Total number of failed login requests"
	LoginDurationSeconds     = "login_duration_seconds"
	LoginDurationSecondsHelp = "Duration of login requests in seconds"

	RTICreatedTotal     = "rti_created_total"
	RTICreatedTotalHelp = "Total number of RTI requests created"

	FundRequestsTotal       = "fund_requests_total"
	FundRequestsTotalHelp   = "Total number of funding requests received"
	FundSuccessTotal        = "fund_success_total"
	FundSuccessTotalHelp    = "Total number of successful funding transactions"
	FundRejectedTotal       = "fund_rejected_total"
	FundRejectedTotalHelp   = "Total number of rejected funding attempts"
	FundConflictTotal       = "fund_conflict_total"
	FundConflictTotalHelp   = "Total number of funding attempts that exhausted conflict retries"
	FundDurationSeconds     = "fund_duration_seconds"
	FundDurationSecondsHelp = "Duration of funding transactions in seconds"
)
