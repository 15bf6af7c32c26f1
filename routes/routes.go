package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/harjotgill/sports-office/handlers"
	"github.com/harjotgill/sports-office/middleware"
	"github.com/harjotgill/sports-office/models"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Student     *handlers.StudentHandler
	Captain     *handlers.CaptainHandler
	Admin       *handlers.AdminHandler
	Session     *handlers.SessionHandler
	GymSwimming *handlers.GymSwimmingHandler
	Attendance  *handlers.AttendanceHandler
	Activity    *handlers.ActivityHandler
	Dashboard   *handlers.DashboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, auth *middleware.Authenticator, allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/auth/set-role", h.Auth.SetRole)
			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/ws", h.WebSocket.ServeWs)

			r.Route("/student", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleStudent))

				r.Get("/profile", h.Student.GetProfile)
				r.Put("/profile", h.Student.UpdateProfile)
				r.Post("/profile/submit", h.Student.SubmitProfile)
				r.Post("/profile/photo/{kind}", h.Student.UploadPhoto)
				r.Post("/notifications/read", h.Student.MarkNotificationsRead)
				r.Get("/sessions", h.Student.MySessions)
			})

			r.Route("/captain", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleCaptain))

				r.Get("/profile", h.Captain.GetProfile)
				r.Post("/profile", h.Captain.CompleteProfile)
				r.Get("/team", h.Captain.GetTeam)
				r.Post("/team", h.Captain.SubmitTeam)
				r.Post("/team/members", h.Captain.AddMember)
				r.Get("/certificates", h.Captain.GetCertificates)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Post("/users", h.Admin.CreateUser)

				r.Get("/profiles/pending", h.Admin.ListPendingProfiles)
				r.Post("/profiles/{id}/approve", h.Admin.ApproveProfile)
				r.Post("/profiles/{id}/reject", h.Admin.RejectProfile)
				r.Post("/profiles/{id}/position", h.Admin.AssignStudentPosition)

				r.Get("/students", h.Admin.ListStudents)
				r.Get("/students/{id}", h.Admin.GetStudent)
				r.Put("/students/{id}", h.Admin.UpdateStudent)
				r.Delete("/students/{id}", h.Admin.DeleteStudent)
				r.Get("/students/history/{urn}", h.Admin.StudentHistory)

				r.Get("/captains", h.Admin.ListCaptains)
				r.Put("/captains/{id}", h.Admin.UpdateCaptain)
				r.Delete("/captains/{id}", h.Admin.DeleteCaptain)

				r.Get("/teams", h.Admin.ListTeams)
				r.Post("/teams/{id}/approve", h.Admin.ApproveTeam)
				r.Post("/teams/{id}/reject", h.Admin.RejectTeam)
				r.Post("/teams/{id}/position", h.Admin.AssignTeamPosition)
				r.Put("/teams/{id}/members/{index}", h.Admin.UpdateTeamMember)
				r.Delete("/teams/{id}/members/{index}", h.Admin.RemoveTeamMember)

				r.Get("/certificates/eligible", h.Admin.ListEligibleCertificates)
				r.Post("/certificates/send/{id}", h.Admin.SendCertificates)

				r.Post("/recent-activities", h.Activity.Create)
				r.Get("/recent-activities", h.Activity.ListRecent)
				r.Get("/recent-activities/{id}", h.Activity.Get)
				r.Get("/dashboard", h.Dashboard.GetStats)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", h.Session.List)
				r.Get("/active", h.Session.GetActive)
				r.Get("/{id}", h.Session.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleAdmin))

					r.Post("/", h.Session.Create)
					r.Post("/{id}/activate", h.Session.SetActive)
					r.Delete("/{id}", h.Session.Delete)
				})
			})

			r.Route("/gym-swimming", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleTeacher))

				r.Post("/students", h.GymSwimming.Enroll)
				r.Get("/students", h.GymSwimming.List)
				r.Get("/students/{id}", h.GymSwimming.Get)
				r.Put("/students/{id}", h.GymSwimming.Update)
				r.Delete("/students/{id}", h.GymSwimming.Delete)

				r.Post("/attendance", h.Attendance.Mark)
				r.Get("/attendance", h.Attendance.GetByDate)
				r.Get("/attendance/students/{id}", h.Attendance.GetByStudent)
			})
		})
	})

	return router
}
