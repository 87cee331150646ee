package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rsvp_server/config"
	"rsvp_server/models"
	"rsvp_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableNames maps the logical collections to DynamoDB tables
type TableNames struct {
	Parties      string
	Responses    string
	ResponseKeys string
}

// DefaultTableNames uses the model table names
func DefaultTableNames() TableNames {
	return TableNames{
		Parties:      models.Party{}.TableName(),
		Responses:    models.Response{}.TableName(),
		ResponseKeys: models.ResponseKey{}.TableName(),
	}
}

// DynamoStore keeps parties and responses in DynamoDB.
//
// With the scan guard, InsertResponse is a plain put: two concurrent first
// submissions for the same employeeId can both insert. With the conditional
// guard, the response is written in one transaction together with a
// (partyId, employeeId) key item that must not exist yet.
type DynamoStore struct {
	Dynamo *DynamoService
	Tables TableNames
	Guard  string
}

// NewDynamoStore creates a DynamoStore, filling in default table names
func NewDynamoStore(dynamo *DynamoService, tables TableNames, guard string) *DynamoStore {
	defaults := DefaultTableNames()
	if tables.Parties == "" {
		tables.Parties = defaults.Parties
	}
	if tables.Responses == "" {
		tables.Responses = defaults.Responses
	}
	if tables.ResponseKeys == "" {
		tables.ResponseKeys = defaults.ResponseKeys
	}
	if guard == "" {
		guard = config.GuardScan
	}
	return &DynamoStore{Dynamo: dynamo, Tables: tables, Guard: guard}
}

func (s *DynamoStore) PutParty(ctx context.Context, party models.Party) error {
	return s.Dynamo.PutItem(ctx, s.Tables.Parties, party, "")
}

func (s *DynamoStore) GetParty(ctx context.Context, partyID string) (*models.Party, error) {
	key := map[string]types.AttributeValue{
		"partyId": utils.StringAttr(partyID),
	}

	item, err := s.Dynamo.GetItem(ctx, s.Tables.Parties, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var party models.Party
	if err := attributevalue.UnmarshalMap(item, &party); err != nil {
		return nil, fmt.Errorf("failed to unmarshal party: %w", err)
	}
	return &party, nil
}

func (s *DynamoStore) FindResponsesByEmployeeID(ctx context.Context, partyID, employeeID string) ([]models.Response, error) {
	items, err := s.Dynamo.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Responses),
		KeyConditionExpression: aws.String("partyId = :partyId"),
		FilterExpression:       aws.String("employeeId = :employeeId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":partyId":    utils.StringAttr(partyID),
			":employeeId": utils.StringAttr(employeeID),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}

	var responses []models.Response
	if err := attributevalue.UnmarshalListOfMaps(items, &responses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
	}
	return responses, nil
}

func (s *DynamoStore) InsertResponse(ctx context.Context, resp models.Response) error {
	if s.Guard != config.GuardConditional {
		return s.Dynamo.PutItem(ctx, s.Tables.Responses, resp, "attribute_not_exists(responseId)")
	}

	respItem, err := attributevalue.MarshalMap(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	keyItem, err := attributevalue.MarshalMap(models.ResponseKey{
		PartyID:    resp.PartyID,
		EmployeeID: resp.EmployeeID,
		ResponseID: resp.ResponseID,
		CreatedAt:  resp.SubmittedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response key: %w", err)
	}

	err = s.Dynamo.TransactPut(ctx,
		types.Put{
			TableName:           aws.String(s.Tables.ResponseKeys),
			Item:                keyItem,
			ConditionExpression: aws.String("attribute_not_exists(employeeId)"),
		},
		types.Put{
			TableName: aws.String(s.Tables.Responses),
			Item:      respItem,
		},
	)
	if conditionFailed(err) {
		return models.ErrConflict
	}
	return err
}

func (s *DynamoStore) UpdateResponse(ctx context.Context, resp models.Response) error {
	key := map[string]types.AttributeValue{
		"partyId":    utils.StringAttr(resp.PartyID),
		"responseId": utils.StringAttr(resp.ResponseID),
	}
	values := map[string]types.AttributeValue{
		":employeeId":      utils.StringAttr(resp.EmployeeID),
		":name":            utils.StringAttr(resp.Name),
		":workEmail":       utils.StringAttr(resp.WorkEmail),
		":attendance":      utils.StringAttr(resp.Attendance),
		":drinker":         utils.StringAttr(resp.Drinker),
		":drinkPreference": utils.StringAttr(resp.DrinkPreference),
		":submittedAt":     utils.StringAttr(resp.SubmittedAt.Format(time.RFC3339Nano)),
	}
	// "name" is a DynamoDB reserved word
	names := map[string]string{"#n": "name"}

	_, err := s.Dynamo.UpdateItem(ctx, s.Tables.Responses,
		"SET employeeId = :employeeId, #n = :name, workEmail = :workEmail, attendance = :attendance, "+
			"drinker = :drinker, drinkPreference = :drinkPreference, submittedAt = :submittedAt",
		"attribute_exists(responseId)",
		key, values, names,
	)
	if errors.Is(err, ErrItemNotFound) {
		return models.ErrNotFound
	}
	return err
}

func (s *DynamoStore) ListResponses(ctx context.Context, partyID string) ([]models.Response, error) {
	items, err := s.Dynamo.QueryAll(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Responses),
		KeyConditionExpression: aws.String("partyId = :partyId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":partyId": utils.StringAttr(partyID),
		},
	})
	if err != nil {
		return nil, err
	}

	responses := make([]models.Response, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &responses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
	}
	return responses, nil
}

// Close is a no-op; the SDK client holds no resources that need releasing
func (s *DynamoStore) Close() error {
	return nil
}
