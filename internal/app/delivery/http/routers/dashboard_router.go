package routers

import (
	"medrecords-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachDashboardRoutes(router chi.Router, dashboardController *controllers.DashboardController) {
	router.Get("/patient", dashboardController.GetPatientDashboard)
	router.Get("/doctor", dashboardController.GetDoctorDashboard)
	router.Get("/admin", dashboardController.GetAdminDashboard)
}
