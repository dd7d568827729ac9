package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/sterlingsteels/itdesk/internal/asset"
	"github.com/sterlingsteels/itdesk/internal/attendance"
	"github.com/sterlingsteels/itdesk/internal/auth"
	"github.com/sterlingsteels/itdesk/internal/bill"
	"github.com/sterlingsteels/itdesk/internal/broadband"
	"github.com/sterlingsteels/itdesk/internal/employee"
	"github.com/sterlingsteels/itdesk/internal/m365"
	"github.com/sterlingsteels/itdesk/internal/maintenance"
	"github.com/sterlingsteels/itdesk/internal/repair"
	"github.com/sterlingsteels/itdesk/internal/software"
	"github.com/sterlingsteels/itdesk/internal/transport/middleware"
)

// Handlers carries every mounted domain handler. Nil entries are skipped so
// partial wiring in tests stays possible.
type Handlers struct {
	Auth        *auth.Handler
	Asset       *asset.Handler
	Employee    *employee.Handler
	Repair      *repair.Handler
	Maintenance *maintenance.Handler
	Bill        *bill.Handler
	Software    *software.Handler
	M365        *m365.Handler
	Broadband   *broadband.Handler
	Attendance  *attendance.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", h.Auth.Register)
				sr.Post("/login", h.Auth.Login)
			})
		}

		// Gate pass lookup stays public so technicians can scan the QR
		// without an account.
		if h.Repair != nil {
			r.Get("/repairs/gate-pass/{gatePass}", h.Repair.GetByGatePass)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/auth/profile", h.Auth.Profile)

			if h.Asset != nil {
				pr.Route("/assets", func(ar chi.Router) {
					ar.Post("/", h.Asset.Create)
					ar.Get("/", h.Asset.List)
					ar.Get("/export", h.Asset.Export)
					ar.Get("/tag/{assetTag}", h.Asset.GetByTag)
					ar.Get("/{id}", h.Asset.Get)
					ar.Patch("/{id}", h.Asset.Update)
					ar.Delete("/{id}", h.Asset.Delete)
					ar.Get("/{id}/qr", h.Asset.QRCode)
				})
			}

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Post("/", h.Employee.Create)
					er.Get("/", h.Employee.List)
					er.Get("/export", h.Employee.Export)
					er.Get("/{id}", h.Employee.Get)
					er.Patch("/{id}", h.Employee.Update)
					er.Delete("/{id}", h.Employee.Delete)
					er.Post("/{id}/assets", h.Employee.Assign)
					er.Delete("/{id}/assets", h.Employee.Unassign)
				})
			}

			if h.Repair != nil {
				pr.Route("/repairs", func(rr chi.Router) {
					rr.Post("/", h.Repair.Dispatch)
					rr.Get("/", h.Repair.List)
					rr.Get("/{id}", h.Repair.Get)
					rr.Post("/{id}/return", h.Repair.Return)
					rr.Get("/{id}/qr", h.Repair.GatePassQR)
				})
			}

			if h.Maintenance != nil {
				pr.Route("/maintenance", func(mr chi.Router) {
					mr.Post("/", h.Maintenance.Create)
					mr.Get("/", h.Maintenance.List)
					mr.Get("/reports", h.Maintenance.Reports)
					mr.Get("/export", h.Maintenance.Export)
					mr.Post("/circulate", h.Maintenance.Circulate)
					mr.Get("/{id}", h.Maintenance.Get)
					mr.Delete("/{id}", h.Maintenance.Delete)
					mr.Post("/{id}/return", h.Maintenance.MarkReturned)
				})
			}

			if h.Bill != nil {
				pr.Route("/bills", func(br chi.Router) {
					br.Post("/", h.Bill.Create)
					br.Get("/", h.Bill.List)
					br.Get("/pending-count", h.Bill.PendingCount)
					br.Get("/reports", h.Bill.Reports)
					br.Get("/export", h.Bill.Export)
					br.Post("/remind", h.Bill.SendReminders)
					br.Get("/{id}", h.Bill.Get)
					br.Patch("/{id}", h.Bill.Update)
					br.Delete("/{id}", h.Bill.Delete)
					br.Post("/{id}/pay", h.Bill.Pay)
				})
			}

			if h.Software != nil {
				pr.Route("/software", func(sr chi.Router) {
					sr.Post("/", h.Software.Create)
					sr.Get("/", h.Software.List)
					sr.Post("/sweep", h.Software.Sweep)
					sr.Get("/{id}", h.Software.Get)
					sr.Patch("/{id}", h.Software.Update)
					sr.Delete("/{id}", h.Software.Delete)
				})
			}

			if h.M365 != nil {
				pr.Route("/m365", func(mr chi.Router) {
					mr.Get("/usage", h.M365.List)
					mr.Post("/sync", h.M365.Sync)
				})
			}

			if h.Broadband != nil {
				pr.Route("/broadband", func(br chi.Router) {
					br.Post("/", h.Broadband.Create)
					br.Get("/", h.Broadband.List)
					br.Get("/{id}", h.Broadband.Get)
					br.Patch("/{id}", h.Broadband.Update)
					br.Delete("/{id}", h.Broadband.Delete)
					br.Post("/{id}/addons", h.Broadband.AddAddon)
				})
			}

			if h.Attendance != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.Post("/fingerprint", h.Attendance.Notify)
					ar.Get("/fingerprint", h.Attendance.List)
				})
			}
		})
	})
}
