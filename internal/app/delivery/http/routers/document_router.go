package routers

import (
	"medrecords-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachDocumentRoutes(router chi.Router, documentController *controllers.DocumentController) {
	router.Get("/{document_id}", documentController.GetDocument)
	router.Get("/{document_id}/download", documentController.DownloadDocument)
}

func attachPatientRoutes(router chi.Router, documentController *controllers.DocumentController) {
	router.Get("/{patient_id}/documents", documentController.ListPatientDocuments)
}
