package routers

import (
	"medrecords-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(
	router chi.Router,
	accountController *controllers.AccountController,
	assignmentController *controllers.AssignmentController,
	documentController *controllers.DocumentController,
) {
	router.Route("/accounts", func(r chi.Router) {
		r.Post("/", accountController.CreateAccount)
		r.Get("/", accountController.ListAccounts)
		r.Get("/{account_id}", accountController.GetAccount)
		r.Put("/{account_id}", accountController.UpdateAccount)
		r.Delete("/{account_id}", accountController.DeleteAccount)
	})

	router.Post("/doctors/{doctor_id}/patients/{patient_id}", assignmentController.AssignPatient)
	router.Delete("/doctors/{doctor_id}/patients/{patient_id}", assignmentController.UnassignPatient)
	router.Post("/assignments", assignmentController.SubmitAssignmentForm)

	router.Post("/patients/{patient_id}/documents", documentController.UploadDocument)
}
