package routes

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avinassh/rtiman/internal/auth"
	"github.com/avinassh/rtiman/internal/funding"
	"github.com/avinassh/rtiman/internal/interfaces"
	"github.com/avinassh/rtiman/internal/models/dto"

	structValidator "github.com/go-playground/validator/v10"
)

type Route struct {
	Metrics        interfaces.Metrics
	AccountService interfaces.AccountService
	RTIService     interfaces.RTIService
	FundingService interfaces.FundingService
	PrivateKey     *ecdsa.PrivateKey
	PublicKey      *ecdsa.PublicKey
	Logger         interfaces.Logger
	validator      *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(metrics interfaces.Metrics, accountService interfaces.AccountService,
	rtiService interfaces.RTIService, fundingService interfaces.FundingService,
	privateKey *ecdsa.PrivateKey, logger interfaces.Logger, validator *structValidator.Validate,
) *Route {
	return &Route{
		Metrics:        metrics,
		AccountService: accountService,
		RTIService:     rtiService,
		FundingService: fundingService,
		PrivateKey:     privateKey,
		PublicKey:      &privateKey.PublicKey,
		Logger:         logger,
		validator:      validator,
	}
}

// Signup handles account registration. A fresh account gets the starting
// credit balance and is logged in right away, like the signup flow users
// expect from the site.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupRequestsTotal)
	}

	signupRequest := &dto.SignupRequestDTO{}
	if !r.decodeJSONBody(w, req, signupRequest, SignupErrorsTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	account, err := r.AccountService.RegisterAccount(req.Context(), signupRequest.Username, signupRequest.Password)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		r.errorResponse(w, err, ErrFailedToRegister)
		if r.Metrics != nil {
			r.Metrics.IncCounter(SignupErrorsTotal)
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(SignupSuccessTotal)
		duration := time.Since(startTime).Seconds()
		r.Metrics.ObserveHistogram(SignupDurationSeconds, duration)
	}

	// Auto-login with the starting balance cached in the session.
	if err := r.setSessionCookie(w, account.Username, account.Credits); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, ErrFailedToGenerateToken)
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)

	response := &dto.SignupResponseDTO{
		Message:   MsgSignupSuccessful,
		AccountID: account.ID,
		Credits:   account.Credits,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", SignupRouteAPI, "error", err)
	}
}

// Login handles login requests and seeds the session cookie with the account's
// current balance.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginRequestsTotal)
	}

	loginRequest := &dto.LoginRequestDTO{}
	if !r.decodeJSONBody(w, req, loginRequest, LoginFailedTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	account, err := r.AccountService.AuthenticateAccount(req.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil || account == nil {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, err, ErrInvalidCredentials)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
			r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
		}
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(LoginSuccessTotal)
		r.Metrics.ObserveHistogram(LoginDurationSeconds, time.Since(startTime).Seconds())
	}

	if err := r.setSessionCookie(w, account.Username, account.Credits); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, ErrFailedToGenerateToken)
		if r.Metrics != nil {
			r.Metrics.IncCounter(LoginFailedTotal)
		}
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.LoginResponseDTO{
		Message: MsgLoginSuccessful,
		Credits: account.Credits,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", LoginRouteAPI, "error", err)
	}
}

// Logout expires the session cookie.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": MsgLogoutSuccessful})
}

// Me echoes the session claims. The credits value is the cached copy from the
// token, not a fresh read of the account store.
func (r *Route) Me(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	claims := r.currentSession(req)
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, fmt.Errorf("no valid session"), ErrLoginRequired)
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.MeResponseDTO{
		Username: claims.Username,
		Credits:  claims.Credits,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", MeRouteAPI, "error", err)
	}
}

// RTI serves the collection route: GET lists every request, POST creates one.
func (r *Route) RTI(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.listRTI(w, req)
	case http.MethodPost:
		r.createRTI(w, req)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
	}
}

func (r *Route) listRTI(w http.ResponseWriter, req *http.Request) {
	requests, err := r.RTIService.ListRequests(req.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, ErrFailedToListRTI)
		return
	}

	response := &dto.RTIListResponseDTO{Requests: make([]dto.RTIRequestDTO, 0, len(requests))}
	for _, request := range requests {
		response.Requests = append(response.Requests, dto.RTIRequestDTO{
			ID:      request.ID,
			Name:    request.Name,
			Summary: request.Summary,
			Funds:   request.Funds,
		})
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", RTIRouteAPI, "error", err)
	}
}

func (r *Route) createRTI(w http.ResponseWriter, req *http.Request) {
	claims := r.currentSession(req)
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, fmt.Errorf("no valid session"), ErrLoginRequired)
		return
	}

	newRequest := &dto.NewRTIRequestDTO{}
	if !r.decodeJSONBody(w, req, newRequest, "") {
		return
	}

	requestID, err := r.RTIService.CreateRequest(req.Context(), newRequest.Name, newRequest.Summary)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, ErrFailedToCreateRTI)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(RTICreatedTotal)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusCreated)
	response := &dto.NewRTIResponseDTO{
		Message:   MsgRTICreatedSuccessful,
		RequestID: requestID,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", RTIRouteAPI, "error", err)
	}
}

// RTIDisplay serves a single RTI request.
func (r *Route) RTIDisplay(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	id := req.PathValue("id")
	request, err := r.RTIService.GetRequest(req.Context(), id)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		r.errorResponse(w, err, ErrFailedToListRTI)
		return
	}
	if request == nil {
		w.WriteHeader(http.StatusNotFound)
		r.errorResponse(w, fmt.Errorf("rti %q not found", id), ErrRTINotFound)
		return
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.RTIRequestDTO{
		ID:      request.ID,
		Name:    request.Name,
		Summary: request.Summary,
		Funds:   request.Funds,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", RTIItemRouteAPI, "error", err)
	}
}

// Fund handles funding requests. The session identifies the actor; the body
// carries the raw amount; the funding service does the rest. On success the
// session cookie is reissued with the new balance.
func (r *Route) Fund(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		r.errorResponse(w, fmt.Errorf("method %s not allowed", req.Method), ErrMethodNotAllowed)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(FundRequestsTotal)
	}

	claims := r.currentSession(req)
	if claims == nil {
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, fmt.Errorf("no valid session"), ErrLoginRequired)
		if r.Metrics != nil {
			r.Metrics.IncCounter(FundRejectedTotal)
		}
		return
	}

	fundRequest := &dto.FundRequestDTO{}
	if !r.decodeJSONBody(w, req, fundRequest, FundRejectedTotal) {
		return
	}

	var startTime time.Time
	if r.Metrics != nil {
		startTime = time.Now()
	}

	requestID := req.PathValue("id")
	newBalance, err := r.FundingService.Fund(req.Context(), claims.Username, requestID, fundRequest.Amount)
	if r.Metrics != nil {
		r.Metrics.ObserveHistogram(FundDurationSeconds, time.Since(startTime).Seconds())
	}
	if err != nil {
		r.fundRejection(w, err)
		return
	}

	if r.Metrics != nil {
		r.Metrics.IncCounter(FundSuccessTotal)
	}

	// Refresh the cached balance in the session.
	if err := r.setSessionCookie(w, claims.Username, newBalance); err != nil {
		r.Logger.Error(ErrFailedToGenerateToken, "route", FundRouteAPI, "error", err)
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(http.StatusOK)
	response := &dto.FundResponseDTO{
		Message:    MsgFundSuccessful,
		NewBalance: newBalance,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "route", FundRouteAPI, "error", err)
	}
}

// fundRejection maps the funding service's sentinel errors onto HTTP statuses
// and user-facing messages.
func (r *Route) fundRejection(w http.ResponseWriter, err error) {
	if r.Metrics != nil {
		if errors.Is(err, funding.ErrTransientConflict) {
			r.Metrics.IncCounter(FundConflictTotal)
		} else {
			r.Metrics.IncCounter(FundRejectedTotal)
		}
	}

	switch {
	case errors.Is(err, funding.ErrActorNotFound):
		w.WriteHeader(http.StatusUnauthorized)
		r.errorResponse(w, err, ErrLoginRequired)
	case errors.Is(err, funding.ErrRequestNotFound):
		w.WriteHeader(http.StatusNotFound)
		r.errorResponse(w, err, ErrRTINotFound)
	case errors.Is(err, funding.ErrMissingAmount), errors.Is(err, funding.ErrInvalidAmount):
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, ErrEnterValidAmount)
	case errors.Is(err, funding.ErrBelowMinimum):
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, ErrAmountTooSmall)
	case errors.Is(err, funding.ErrInsufficientCredits):
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, ErrCannotOverfund)
	case errors.Is(err, funding.ErrTransientConflict):
		w.WriteHeader(http.StatusConflict)
		r.errorResponse(w, err, ErrFundConflict)
	default:
		w.WriteHeader(http.StatusServiceUnavailable)
		r.errorResponse(w, err, ErrFundUnavailable)
	}
}

// currentSession resolves the actor from the session cookie. Absent, forged
// or expired tokens resolve to nil.
func (r *Route) currentSession(req *http.Request) *auth.SessionClaims {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	claims, err := auth.VerifyToken(cookie.Value, r.PublicKey)
	if err != nil {
		r.Logger.Debug("Rejected session token", "error", err)
		return nil
	}
	return claims
}

// setSessionCookie issues a session token carrying the username and the
// cached balance for display.
func (r *Route) setSessionCookie(w http.ResponseWriter, username string, credits int64) error {
	sessionToken, err := auth.CreateToken(username, credits, r.PrivateKey)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
	})
	return nil
}

// decodeJSONBody enforces the JSON content type, decodes the body into dst and
// validates it, writing the error response itself. Returns false when the
// request was rejected. errorMetric may be empty when no counter applies.
func (r *Route) decodeJSONBody(w http.ResponseWriter, req *http.Request, dst interface{}, errorMetric string) bool {
	incError := func() {
		if r.Metrics != nil && errorMetric != "" {
			r.Metrics.IncCounter(errorMetric)
		}
	}

	if req.Header.Get(ContentType) != ContentTypeJson {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid content-type: %s", req.Header.Get(ContentType)), ErrInvalidContentType)
		incError()
		return false
	}

	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, err, ErrInvalidRequestBody)
		incError()
		return false
	}

	if err := r.validator.Struct(dst); err != nil {
		errs := err.(structValidator.ValidationErrors)
		w.WriteHeader(http.StatusBadRequest)
		r.errorResponse(w, fmt.Errorf("invalid request data: %s", errs), ErrValidationFailed)
		incError()
		return false
	}

	return true
}

func (r *Route) errorResponse(w http.ResponseWriter, err error, message string) {
	if err == nil {
		err = fmt.Errorf("%s", message)
	}
	jsonResponse := map[string]string{
		"error":   err.Error(),
		"message": message,
	}
	_ = json.NewEncoder(w).Encode(jsonResponse)
}
