package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/marketplace/internal/model"
)

// Collection partition keys within the single DynamoDB table.
const (
	collectionUsers    = "users"
	collectionBrands   = "brands"
	collectionProducts = "products"
	collectionOrders   = "orders"
)

// DynamoStore implements Store on a single DynamoDB table, partitioned by
// collection name with the document id as sort key. Documents are stored
// as JSON strings; secondary lookups (email, brand name) filter within
// the collection partition.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// dynamoDocument is the DynamoDB item structure.
type dynamoDocument struct {
	Collection string `dynamodbav:"collection"`
	ID         string `dynamodbav:"id"`
	Doc        string `dynamodbav:"doc"`
	CreatedAt  string `dynamodbav:"created_at"`
}

// NewDynamoClient builds a DynamoDB client from the default AWS config
// chain (environment, shared config, instance role).
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func (ds *DynamoStore) put(ctx context.Context, collection, id string, createdAt time.Time, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	item := dynamoDocument{
		Collection: collection,
		ID:         id,
		Doc:        string(data),
		CreatedAt:  createdAt.Format(time.RFC3339Nano),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = ds.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

func (ds *DynamoStore) get(ctx context.Context, collection, id string, out any) error {
	result, err := ds.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ds.tableName),
		Key: map[string]types.AttributeValue{
			"collection": &types.AttributeValueMemberS{Value: collection},
			"id":         &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if result.Item == nil {
		return ErrNotFound
	}

	var item dynamoDocument
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return json.Unmarshal([]byte(item.Doc), out)
}

func (ds *DynamoStore) delete(ctx context.Context, collection, id string) error {
	result, err := ds.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.tableName),
		Key: map[string]types.AttributeValue{
			"collection": &types.AttributeValueMemberS{Value: collection},
			"id":         &types.AttributeValueMemberS{Value: id},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if len(result.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}

// scanCollection loads every document of a collection partition.
func (ds *DynamoStore) scanCollection(ctx context.Context, collection string) ([]dynamoDocument, error) {
	var items []dynamoDocument
	var lastKey map[string]types.AttributeValue

	for {
		result, err := ds.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(ds.tableName),
			KeyConditionExpression: aws.String("#c = :c"),
			ExpressionAttributeNames: map[string]string{
				"#c": "collection",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":c": &types.AttributeValueMemberS{Value: collection},
			},
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
		}

		for _, raw := range result.Items {
			var item dynamoDocument
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				continue
			}
			items = append(items, item)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		lastKey = result.LastEvaluatedKey
	}

	return items, nil
}

// Users

func (ds *DynamoStore) InsertUser(ctx context.Context, u *model.User) error {
	return ds.put(ctx, collectionUsers, u.ID, u.CreatedAt, u)
}

func (ds *DynamoStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := ds.get(ctx, collectionUsers, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (ds *DynamoStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	items, err := ds.scanCollection(ctx, collectionUsers)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		var u model.User
		if err := json.Unmarshal([]byte(item.Doc), &u); err != nil {
			continue
		}
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Brands

func (ds *DynamoStore) InsertBrand(ctx context.Context, b *model.Brand) error {
	return ds.put(ctx, collectionBrands, b.ID, b.CreatedAt, b)
}

func (ds *DynamoStore) FindBrandByID(ctx context.Context, id string) (*model.Brand, error) {
	var b model.Brand
	if err := ds.get(ctx, collectionBrands, id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (ds *DynamoStore) FindBrandByName(ctx context.Context, name string) (*model.Brand, error) {
	brands, err := ds.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range brands {
		if strings.EqualFold(b.BrandName, name) {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (ds *DynamoStore) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	items, err := ds.scanCollection(ctx, collectionBrands)
	if err != nil {
		return nil, err
	}
	brands := make([]*model.Brand, 0, len(items))
	for _, item := range items {
		var b model.Brand
		if err := json.Unmarshal([]byte(item.Doc), &b); err != nil {
			continue
		}
		brands = append(brands, &b)
	}
	sort.Slice(brands, func(i, j int) bool {
		return brands[i].CreatedAt.After(brands[j].CreatedAt)
	})
	return brands, nil
}

func (ds *DynamoStore) UpdateBrand(ctx context.Context, b *model.Brand) error {
	if _, err := ds.FindBrandByID(ctx, b.ID); err != nil {
		return err
	}
	return ds.put(ctx, collectionBrands, b.ID, b.CreatedAt, b)
}

func (ds *DynamoStore) DeleteBrand(ctx context.Context, id string) error {
	return ds.delete(ctx, collectionBrands, id)
}

// Products

func (ds *DynamoStore) InsertProduct(ctx context.Context, p *model.Product) error {
	return ds.put(ctx, collectionProducts, p.ID, p.CreatedAt, p)
}

func (ds *DynamoStore) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := ds.get(ctx, collectionProducts, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (ds *DynamoStore) ListProducts(ctx context.Context) ([]*model.Product, error) {
	items, err := ds.scanCollection(ctx, collectionProducts)
	if err != nil {
		return nil, err
	}
	products := make([]*model.Product, 0, len(items))
	for _, item := range items {
		var p model.Product
		if err := json.Unmarshal([]byte(item.Doc), &p); err != nil {
			continue
		}
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (ds *DynamoStore) ListProductsByBrand(ctx context.Context, brandID string, offset, limit int) ([]*model.Product, int, error) {
	all, err := ds.ListProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	var matched []*model.Product
	for _, p := range all {
		if p.BrandID == brandID {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*model.Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (ds *DynamoStore) DeleteProduct(ctx context.Context, id string) error {
	return ds.delete(ctx, collectionProducts, id)
}

// Orders

func (ds *DynamoStore) InsertOrder(ctx context.Context, o *model.Order) error {
	return ds.put(ctx, collectionOrders, o.ID, o.CreatedAt, o)
}

func (ds *DynamoStore) FindOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := ds.get(ctx, collectionOrders, id, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (ds *DynamoStore) ListOrders(ctx context.Context) ([]*model.Order, error) {
	items, err := ds.scanCollection(ctx, collectionOrders)
	if err != nil {
		return nil, err
	}
	orders := make([]*model.Order, 0, len(items))
	for _, item := range items {
		var o model.Order
		if err := json.Unmarshal([]byte(item.Doc), &o); err != nil {
			continue
		}
		orders = append(orders, &o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (ds *DynamoStore) UpdateOrder(ctx context.Context, o *model.Order) error {
	if _, err := ds.FindOrderByID(ctx, o.ID); err != nil {
		return err
	}
	return ds.put(ctx, collectionOrders, o.ID, o.CreatedAt, o)
}
