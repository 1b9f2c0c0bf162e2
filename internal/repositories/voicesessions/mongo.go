package voicesessions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/unitychat/gateway/internal/models"
)

const voiceSessionsCollection = "voice_sessions"

// Config holds configuration for the Mongo voice session repository
type Config struct {
	// Database handle
	Database *mongo.Database
}

// mongoRepository implements the Repository interface using MongoDB
type mongoRepository struct {
	sessions *mongo.Collection
}

// NewMongo creates a new Mongo-backed voice session repository
func NewMongo(cfg *Config) (*mongoRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Database == nil {
		return nil, errors.New("database cannot be nil")
	}

	return &mongoRepository{
		sessions: cfg.Database.Collection(voiceSessionsCollection),
	}, nil
}

// CreateSession persists a new open session.
func (r *mongoRepository) CreateSession(ctx context.Context, input *CreateSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if _, err := r.sessions.InsertOne(ctx, input.Session); err != nil {
		return fmt.Errorf("failed to create voice session: %w", err)
	}

	return nil
}

// CloseOpenSessions sets left-at on any open session for (channel, user).
// Closing zero sessions is not an error; the call is idempotent.
func (r *mongoRepository) CloseOpenSessions(ctx context.Context, input *CloseOpenSessionsInput) error {
	if input == nil || input.ChannelID == "" || input.UserID == "" {
		return errors.New("input, channel ID and user ID cannot be empty")
	}

	_, err := r.sessions.UpdateMany(ctx,
		bson.M{
			"channel_id": input.ChannelID,
			"user_id":    input.UserID,
			"left_at":    nil,
		},
		bson.M{"$set": bson.M{"left_at": input.LeftAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to close voice sessions: %w", err)
	}

	return nil
}

// CloseAllForUser closes every open session for a user and returns what was
// closed, so the caller can broadcast a leave per affected channel.
func (r *mongoRepository) CloseAllForUser(ctx context.Context, input *CloseAllForUserInput) (*CloseAllForUserOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	filter := bson.M{
		"user_id": input.UserID,
		"left_at": nil,
	}

	cursor, err := r.sessions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query open voice sessions: %w", err)
	}

	var open []*models.VoiceSession
	if err := cursor.All(ctx, &open); err != nil {
		return nil, fmt.Errorf("failed to decode open voice sessions: %w", err)
	}

	if len(open) == 0 {
		return &CloseAllForUserOutput{Closed: []*models.VoiceSession{}}, nil
	}

	_, err = r.sessions.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"left_at": input.LeftAt}})
	if err != nil {
		return nil, fmt.Errorf("failed to close voice sessions: %w", err)
	}

	return &CloseAllForUserOutput{Closed: open}, nil
}

// UpdateFlags updates mute/deafen flags on the user's open session.
func (r *mongoRepository) UpdateFlags(ctx context.Context, input *UpdateFlagsInput) error {
	if input == nil || input.ChannelID == "" || input.UserID == "" {
		return errors.New("input, channel ID and user ID cannot be empty")
	}

	_, err := r.sessions.UpdateMany(ctx,
		bson.M{
			"channel_id": input.ChannelID,
			"user_id":    input.UserID,
			"left_at":    nil,
		},
		bson.M{"$set": bson.M{
			"muted":    input.Muted,
			"deafened": input.Deafened,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update voice flags: %w", err)
	}

	return nil
}

// GetOpenSessions returns the open sessions in a channel.
func (r *mongoRepository) GetOpenSessions(ctx context.Context, input *GetOpenSessionsInput) ([]*models.VoiceSession, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	cursor, err := r.sessions.Find(ctx, bson.M{
		"channel_id": input.ChannelID,
		"left_at":    nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query open voice sessions: %w", err)
	}

	var sessions []*models.VoiceSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode open voice sessions: %w", err)
	}

	return sessions, nil
}
