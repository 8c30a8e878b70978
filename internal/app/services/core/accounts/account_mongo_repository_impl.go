package accounts

import (
	"context"
	"errors"
	"medrecords-service/internal/app/contracts"
	"medrecords-service/internal/app/models"
	"medrecords-service/internal/pkg/constvars"
	"medrecords-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fieldAssignedPatients = "assignedPatients"

type AccountMongoRepository struct {
	Collection *mongo.Collection
}

func NewAccountMongoRepository(db *mongo.Database) contracts.AccountRepository {
	return &AccountMongoRepository{
		Collection: db.Collection(constvars.MongoCollectionAccounts),
	}
}

func (r *AccountMongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	err := r.Collection.FindOne(ctx, filter).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &account, nil
}

func (r *AccountMongoRepository) findMany(ctx context.Context, filter bson.M) ([]models.Account, error) {
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	accounts := make([]models.Account, 0)
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return accounts, nil
}

func (r *AccountMongoRepository) FindByID(ctx context.Context, accountID string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": accountID})
}

func (r *AccountMongoRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountMongoRepository) FindByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	return r.findMany(ctx, bson.M{"role": role})
}

func (r *AccountMongoRepository) FindAll(ctx context.Context) ([]models.Account, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *AccountMongoRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.Role == models.RoleDoctor && account.AssignedPatients == nil {
		account.AssignedPatients = []string{}
	}

	if _, err := r.Collection.InsertOne(ctx, account); err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *AccountMongoRepository) UpdateEmail(ctx context.Context, accountID, email string) error {
	update := bson.M{"$set": bson.M{"email": email, "updatedAt": time.Now().UTC()}}
	if _, err := r.Collection.UpdateOne(ctx, bson.M{"_id": accountID}, update); err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *AccountMongoRepository) DeleteByID(ctx context.Context, accountID string) error {
	if _, err := r.Collection.DeleteOne(ctx, bson.M{"_id": accountID}); err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

// AddAssignedPatient is a single conditional $addToSet on the doctor document,
// so two admins adding different patients can never overwrite each other.
func (r *AccountMongoRepository) AddAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	filter := bson.M{
		"_id":                 doctorID,
		"role":                models.RoleDoctor,
		fieldAssignedPatients: bson.M{"$ne": patientID},
	}
	update := bson.M{
		"$addToSet": bson.M{fieldAssignedPatients: patientID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount == 1, nil
}

func (r *AccountMongoRepository) RemoveAssignedPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	filter := bson.M{
		"_id":                 doctorID,
		"role":                models.RoleDoctor,
		fieldAssignedPatients: patientID,
	}
	update := bson.M{
		"$pull": bson.M{fieldAssignedPatients: patientID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount == 1, nil
}

func (r *AccountMongoRepository) RemovePatientFromAllDoctors(ctx context.Context, patientID string) (int64, error) {
	filter := bson.M{
		"role":                models.RoleDoctor,
		fieldAssignedPatients: patientID,
	}
	update := bson.M{
		"$pull": bson.M{fieldAssignedPatients: patientID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount, nil
}

func (r *AccountMongoRepository) RemoveAssignedPatients(ctx context.Context, doctorID string, patientIDs []string) (int64, error) {
	if len(patientIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{"_id": doctorID, "role": models.RoleDoctor}
	update := bson.M{
		"$pull": bson.M{fieldAssignedPatients: bson.M{"$in": patientIDs}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount, nil
}
