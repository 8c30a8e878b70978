package documents

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DocumentMongoRepository struct {
	Collection *mongo.Collection
}

func NewDocumentMongoRepository(db *mongo.Database) contracts.DocumentRepository {
	return &DocumentMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionDocuments),
	}
}

func (r *DocumentMongoRepository) FindByID(ctx context.Context, documentID string) (*models.Document, error) {
	var document models.Document
	err := r.Collection.FindOne(ctx, bson.M{"_id": documentID}).Decode(&document)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &document, nil
}

// FindByPatientID returns newest uploads first.
func (r *DocumentMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	documents := make([]models.Document, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return documents, nil
}

func (r *DocumentMongoRepository) Create(ctx context.Context, document *models.Document) error {
	if _, err := r.Collection.InsertOne(ctx, document); err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}
