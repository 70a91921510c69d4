package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"event-tickets-backend/config"
	"event-tickets-backend/event"
	"event-tickets-backend/factory"
	"event-tickets-backend/handler"
	"event-tickets-backend/healthcheck"
	"event-tickets-backend/identity"
	"event-tickets-backend/ledger"
	"event-tickets-backend/logger"
	"event-tickets-backend/mailer"
	"event-tickets-backend/middleware"
	"event-tickets-backend/payment"
	"event-tickets-backend/response"
	"event-tickets-backend/ticket"
	"event-tickets-backend/token"
	"event-tickets-backend/user"
	"event-tickets-backend/vault"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

// Router returns the router for all the API handler.
func Router(ctx context.Context) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method)).Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SetContentTypeHeader)

	secrets, err := vault.Load()
	if err != nil {
		logger.Fatalf(ctx, "router: error loading secrets: %+v", err)
	}

	identity.CertsAPIEndpoint = viper.GetString(config.IdentityCertsURL)

	f := factory.NewFactory()
	store := ledger.NewMySQL(f.DB(ctx))

	tokens := token.NewIssuer(
		[]byte(secrets.QRSecret),
		viper.GetString(config.QRIssuer),
		time.Duration(viper.GetInt(config.QRValidityDays))*24*time.Hour,
	)
	payments := payment.NewClient(viper.GetString(config.PaymentAPIAddress), secrets.PaymentAPIKey)
	verifier := payment.NewWebhookVerifier([]byte(secrets.PaymentWebhookSecret))

	var mail mailer.Notifier = mailer.Noop{}
	if viper.GetBool(config.EmailEnabled) {
		mail = mailer.NewNotifier(viper.GetString(config.EmailServiceURL))
	}

	eventService := event.NewService(
		store,
		f.Redis(ctx),
		time.Duration(viper.GetInt(config.EventListCacheTTL))*time.Second,
	)
	ticketService := ticket.NewService(store, payments, tokens, mail, viper.GetString(config.FrontendBaseURL))
	userService := user.NewService(store)

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	baseRouter := r.PathPrefix("/v1").Subrouter()

	// The webhook authenticates by signature, public reads by nothing;
	// everything else requires a verified identity token.
	baseRouter.Handle("/webhooks/payment", handler.PaymentWebhook(ticketService, verifier)).Methods(http.MethodPost)

	baseRouter.Handle("/events", middleware.Identify(handler.ListEvents(eventService))).Methods(http.MethodGet)
	baseRouter.Handle("/events/{eventId}", middleware.Identify(handler.GetEvent(eventService))).Methods(http.MethodGet)

	baseRouter.Handle("/events", middleware.Authenticate(handler.CreateEvent(eventService))).Methods(http.MethodPost)
	baseRouter.Handle("/events/{eventId}", middleware.Authenticate(handler.UpdateEvent(eventService))).Methods(http.MethodPut)
	baseRouter.Handle("/events/{eventId}", middleware.Authenticate(handler.DeleteEvent(eventService))).Methods(http.MethodDelete)

	baseRouter.Handle("/events/{eventId}/checkout", middleware.Authenticate(handler.Checkout(ticketService))).Methods(http.MethodPost)
	baseRouter.Handle("/events/{eventId}/comp", middleware.Authenticate(handler.IssueCompTicket(ticketService))).Methods(http.MethodPost)
	baseRouter.Handle("/events/{eventId}/tickets", middleware.Authenticate(handler.ListEventTickets(ticketService))).Methods(http.MethodGet)

	baseRouter.Handle("/tickets", middleware.Authenticate(handler.ListMyTickets(ticketService))).Methods(http.MethodGet)
	baseRouter.Handle("/tickets/validate", middleware.Authenticate(handler.ValidateTicket(ticketService))).Methods(http.MethodPost)
	baseRouter.Handle("/tickets/{ticketId}", middleware.Authenticate(handler.GetTicket(ticketService))).Methods(http.MethodGet)

	baseRouter.Handle("/users/me", middleware.Authenticate(handler.GetProfile(userService))).Methods(http.MethodGet)
	baseRouter.Handle("/users/me", middleware.Authenticate(handler.UpdateProfile(userService))).Methods(http.MethodPut)

	return r
}
