package http

import (
	"net/http"

	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router              *mux.Router
	log                 *logrus.Logger
	authHandler         *handler.AuthHandler
	appointmentHandler  *handler.AppointmentHandler
	doctorHandler       *handler.DoctorHandler
	doctorStaffHandler  *handler.StaffHandler
	pharmacistHandler   *handler.StaffHandler
	prescriptionHandler *handler.PrescriptionHandler
	pharmacyHandler     *handler.PharmacyHandler
	chatHandler         *handler.ChatHandler
	tipHandler          *handler.TipHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

type Handlers struct {
	Auth         *handler.AuthHandler
	Appointment  *handler.AppointmentHandler
	Doctor       *handler.DoctorHandler
	DoctorStaff  *handler.StaffHandler
	Pharmacist   *handler.StaffHandler
	Prescription *handler.PrescriptionHandler
	Pharmacy     *handler.PharmacyHandler
	Chat         *handler.ChatHandler
	Tip          *handler.TipHandler
	AuditLog     *handler.AuditLogHandler
}

func NewRouter(
	log *logrus.Logger,
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		log:                 log,
		authHandler:         handlers.Auth,
		appointmentHandler:  handlers.Appointment,
		doctorHandler:       handlers.Doctor,
		doctorStaffHandler:  handlers.DoctorStaff,
		pharmacistHandler:   handlers.Pharmacist,
		prescriptionHandler: handlers.Prescription,
		pharmacyHandler:     handlers.Pharmacy,
		chatHandler:         handlers.Chat,
		tipHandler:          handlers.Tip,
		auditLogHandler:     handlers.AuditLog,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func can(c entity.Capability) mux.MiddlewareFunc {
	return mux.MiddlewareFunc(middleware.RequireCapability(c))
}

// guarded wraps a single route when its siblings on the subrouter stay open.
func guarded(c entity.Capability, h http.HandlerFunc) http.Handler {
	return middleware.RequireCapability(c)(h)
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/verify-otp", r.authHandler.VerifyOTP).Methods(http.MethodPost)
	auth.HandleFunc("/reset-password", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/me", r.authHandler.UpdateProfile).Methods(http.MethodPut)

	// Appointments. Reads are scoped in the use case and the day view is open
	// to any authenticated caller. Writes check the role before the body is
	// read.
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Handle("", guarded(entity.CapBookAppointment, r.appointmentHandler.Create)).Methods(http.MethodPost)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.Handle("/{id}", guarded(entity.CapModifyAppointment, r.appointmentHandler.Edit)).Methods(http.MethodPut)
	appointments.Handle("/{id}/cancel", guarded(entity.CapModifyAppointment, r.appointmentHandler.Cancel)).Methods(http.MethodPost)
	appointments.Handle("/{id}/confirm-payment", guarded(entity.CapModifyAppointment, r.appointmentHandler.ConfirmPayment)).Methods(http.MethodPost)

	// Doctors (public)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.HandleFunc("", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}/reviews", r.doctorHandler.GetReviews).Methods(http.MethodGet)

	reviews := api.PathPrefix("/doctors/{id}/reviews").Subrouter()
	reviews.Use(r.authMiddleware.Authenticate, can(entity.CapReviewDoctor))
	reviews.HandleFunc("", r.doctorHandler.CreateReview).Methods(http.MethodPost)

	// Doctor self-service
	doctorSelf := api.PathPrefix("/doctor").Subrouter()
	doctorSelf.Use(r.authMiddleware.Authenticate, can(entity.CapManageOwnProfile))
	doctorSelf.HandleFunc("/profile", r.doctorHandler.GetSelfProfile).Methods(http.MethodGet)
	doctorSelf.HandleFunc("/profile", r.doctorHandler.UpdateSelfProfile).Methods(http.MethodPut)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Staff management (admin)
	admin.HandleFunc("/doctors", r.doctorStaffHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorStaffHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/status", r.doctorStaffHandler.SetStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/pharmacists", r.pharmacistHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/pharmacists", r.pharmacistHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/pharmacists/{id}/status", r.pharmacistHandler.SetStatus).Methods(http.MethodPatch)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Prescriptions
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Use(r.authMiddleware.Authenticate)
	prescriptions.Handle("", can(entity.CapWritePrescription)(http.HandlerFunc(r.prescriptionHandler.Create))).Methods(http.MethodPost)
	prescriptions.HandleFunc("", r.prescriptionHandler.List).Methods(http.MethodGet)
	prescriptions.HandleFunc("/{id}", r.prescriptionHandler.Get).Methods(http.MethodGet)
	prescriptions.HandleFunc("/{id}/pdf", r.prescriptionHandler.Download).Methods(http.MethodGet)

	// Pharmacy catalogue (public read)
	pharmacy := api.PathPrefix("/pharmacy").Subrouter()
	pharmacy.HandleFunc("/categories", r.pharmacyHandler.GetAllCategories).Methods(http.MethodGet)
	pharmacy.HandleFunc("/medicines", r.pharmacyHandler.GetAllMedicines).Methods(http.MethodGet)
	pharmacy.HandleFunc("/medicines/{id}", r.pharmacyHandler.GetMedicine).Methods(http.MethodGet)

	catalog := api.PathPrefix("/pharmacy").Subrouter()
	catalog.Use(r.authMiddleware.Authenticate, can(entity.CapManageCatalog))
	catalog.HandleFunc("/categories", r.pharmacyHandler.CreateCategory).Methods(http.MethodPost)
	catalog.HandleFunc("/categories/{id}", r.pharmacyHandler.UpdateCategory).Methods(http.MethodPut)
	catalog.HandleFunc("/categories/{id}", r.pharmacyHandler.DeleteCategory).Methods(http.MethodDelete)
	catalog.HandleFunc("/medicines", r.pharmacyHandler.CreateMedicine).Methods(http.MethodPost)
	catalog.HandleFunc("/medicines/{id}", r.pharmacyHandler.UpdateMedicine).Methods(http.MethodPut)
	catalog.HandleFunc("/medicines/{id}", r.pharmacyHandler.DeleteMedicine).Methods(http.MethodDelete)

	sales := api.PathPrefix("/pharmacy/sales").Subrouter()
	sales.Use(r.authMiddleware.Authenticate, can(entity.CapRecordSale))
	sales.HandleFunc("", r.pharmacyHandler.CreateSale).Methods(http.MethodPost)
	sales.HandleFunc("", r.pharmacyHandler.GetAllSales).Methods(http.MethodGet)
	sales.HandleFunc("/{id}", r.pharmacyHandler.GetSale).Methods(http.MethodGet)

	// Chat with the medical assistant
	chat := api.PathPrefix("/chat/sessions").Subrouter()
	chat.Use(r.authMiddleware.Authenticate)
	chat.HandleFunc("", r.chatHandler.CreateSession).Methods(http.MethodPost)
	chat.HandleFunc("", r.chatHandler.ListSessions).Methods(http.MethodGet)
	chat.HandleFunc("/{id}/messages", r.chatHandler.ListMessages).Methods(http.MethodGet)
	chat.HandleFunc("/{id}/messages", r.chatHandler.SendMessage).Methods(http.MethodPost)

	// Health tips. Reads are public; a signed-in author also sees drafts.
	tipsPublic := api.PathPrefix("/tips").Subrouter()
	tipsPublic.Use(r.authMiddleware.OptionalAuthenticate)
	tipsPublic.HandleFunc("", r.tipHandler.List).Methods(http.MethodGet)
	tipsPublic.HandleFunc("/{id}", r.tipHandler.Get).Methods(http.MethodGet)

	tips := api.PathPrefix("/tips").Subrouter()
	tips.Use(r.authMiddleware.Authenticate, can(entity.CapWriteTips))
	tips.HandleFunc("", r.tipHandler.Create).Methods(http.MethodPost)
	tips.HandleFunc("/{id}", r.tipHandler.Update).Methods(http.MethodPut)
	tips.HandleFunc("/{id}", r.tipHandler.Delete).Methods(http.MethodDelete)

	// Preflight requests match no route otherwise, and mux skips middleware
	// for unmatched requests.
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})

	r.router.Use(middleware.RequestLogger(r.log))
	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
