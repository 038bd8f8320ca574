package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/email-verification-api/internal/domain"
)

// VerificationRepo persists the single authoritative verification record per
// user. PK: user_id; the token lookup goes through the verification_token GSI.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

// TokenIndex is the GSI used by FindActiveByToken.
const TokenIndex = "verification_token-index"

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Upsert writes a fresh credential pair over whatever record exists for the
// user, resetting verified to false. The whole item is written in a single
// UpdateItem, so concurrent resends cannot interleave fields (last writer
// wins). The attempts counter is incremented inside the update expression;
// when resetWindow is true it restarts at 1 and the window is re-anchored at
// rec.CreatedAt. Returns the counter value after the write.
func (r *VerificationRepo) Upsert(ctx context.Context, rec *domain.VerificationRecord, resetWindow bool) (int, error) {
	values := map[string]types.AttributeValue{}
	for name, v := range map[string]interface{}{
		":email":   rec.Email,
		":code":    rec.Code,
		":token":   rec.Token,
		":created": rec.CreatedAt,
		":expires": rec.ExpiresAt,
		":window":  rec.CreatedAt,
		":false":   false,
		":one":     1,
	} {
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return 0, fmt.Errorf("marshal verification field %s: %w", name, err)
		}
		values[name] = av
	}

	set := "email = :email, verification_code = :code, verification_token = :token, " +
		"created_at = :created, expires_at = :expires, verified = :false"
	if resetWindow {
		set += ", attempts = :one, window_start = :window"
	} else {
		set += ", attempts = if_not_exists(attempts, :zero) + :one, window_start = if_not_exists(window_start, :window)"
		values[":zero"] = &types.AttributeValueMemberN{Value: "0"}
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", rec.UserID),
		UpdateExpression:          aws.String("SET " + set + " REMOVE verified_at"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert verification record: %w", err)
	}

	var stored domain.VerificationRecord
	if err := attributevalue.UnmarshalMap(out.Attributes, &stored); err != nil {
		return 0, fmt.Errorf("unmarshal upserted record: %w", err)
	}
	return stored.Attempts, nil
}

// GetByUser returns the user's record regardless of its state. The abuse
// guard reads timing and counter data from it.
func (r *VerificationRepo) GetByUser(ctx context.Context, userID string) (*domain.VerificationRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification record not found: %w", domain.ErrNotFound)
	}
	var rec domain.VerificationRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindActiveByCode matches only an unverified, unexpired record whose code
// equals the supplied one. All misses collapse into domain.ErrNotFound.
func (r *VerificationRepo) FindActiveByCode(ctx context.Context, userID, code string, now time.Time) (*domain.VerificationRecord, error) {
	rec, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec.Code != code || !rec.Active(now) {
		return nil, fmt.Errorf("no active record for code: %w", domain.ErrNotFound)
	}
	return rec, nil
}

// FindActiveByToken is FindActiveByCode keyed by the link token instead of
// (userId, code). Tokens are unique with overwhelming probability, but if the
// index ever yields several rows the most recently created one wins.
func (r *VerificationRepo) FindActiveByToken(ctx context.Context, token string, now time.Time) (*domain.VerificationRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(TokenIndex),
		KeyConditionExpression: aws.String("verification_token = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		return nil, err
	}
	var recs []domain.VerificationRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recs); err != nil {
		return nil, err
	}
	var newest *domain.VerificationRecord
	for i := range recs {
		if !recs[i].Active(now) {
			continue
		}
		if newest == nil || recs[i].CreatedAt.After(newest.CreatedAt) {
			newest = &recs[i]
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("no active record for token: %w", domain.ErrNotFound)
	}
	return newest, nil
}

// MarkVerified flips the record to verified and stamps verified_at. The
// condition expression makes the flip single-winner: of two concurrent
// validations of the same credential, the loser gets domain.ErrNotFound.
func (r *VerificationRepo) MarkVerified(ctx context.Context, userID string, now time.Time) error {
	verifiedAt, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal verified_at: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("user_id", userID),
		UpdateExpression:    aws.String("SET verified = :t, verified_at = :at"),
		ConditionExpression: aws.String("attribute_exists(user_id) AND verified = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":  &types.AttributeValueMemberBOOL{Value: true},
			":f":  &types.AttributeValueMemberBOOL{Value: false},
			":at": verifiedAt,
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("record missing or already verified: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("mark record verified: %w", err)
	}
	return nil
}
