package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "memberadmission/docs"
	"memberadmission/internal/delivery/http/controllers"
	"memberadmission/internal/delivery/http/helpers"
)

// NewRouter initializes the HTTP router with all application routes.
// gatherer backs GET /metrics; a nil gatherer leaves the route out.
func NewRouter(
	memberController *controllers.MemberController,
	eventController *controllers.EventController,
	admissionController *controllers.AdmissionController,
	gatherer prometheus.Gatherer,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Members
	mux.HandleFunc("POST /members", memberController.CreateMember)
	mux.HandleFunc("GET /members", memberController.ListMembers)
	mux.HandleFunc("GET /members/{memberID}", memberController.GetMember)
	mux.HandleFunc("GET /handles/{handle}", memberController.GetMemberByHandle)
	mux.HandleFunc("PUT /members/{memberID}/handle", memberController.SetHandle)
	mux.HandleFunc("GET /members/{memberID}/registrations", admissionController.ListMemberRegistrations)

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("GET /events/{eventID}/attendance", eventController.GetAttendance)

	// Admission
	mux.HandleFunc("POST /events/{eventID}/registrations", admissionController.Register)
	mux.HandleFunc("GET /events/{eventID}/registrations", admissionController.ListRegistrations)
	mux.HandleFunc("POST /events/{eventID}/registrations/{memberID}/payment", admissionController.VerifyPayment)
	mux.HandleFunc("POST /events/{eventID}/registrations/{memberID}/check-in", admissionController.CheckIn)
	mux.HandleFunc("POST /events/{eventID}/registrations/{memberID}/check-out", admissionController.CheckOut)
	mux.HandleFunc("POST /events/{eventID}/scan", admissionController.Scan)

	// Operations
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
