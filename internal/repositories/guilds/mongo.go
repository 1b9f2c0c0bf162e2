package guilds

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrChannelNotFound is returned when a channel has no owning guild on record
var ErrChannelNotFound = errors.New("channel not found")

const (
	guildMembersCollection   = "guild_members"
	channelsCollection       = "channels"
	dmParticipantsCollection = "dm_participants"
	usersCollection          = "users"
)

// guildMemberDocument is a row in the guild_members collection
type guildMemberDocument struct {
	GuildID string `bson:"guild_id"`
	UserID  string `bson:"user_id"`
}

// channelDocument is the subset of the channels collection the gateway reads
type channelDocument struct {
	ID      string `bson:"_id"`
	GuildID string `bson:"guild_id"`
}

// userDocument is the subset of the users collection the gateway reads
type userDocument struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`
}

// Config holds configuration for the Mongo guilds repository
type Config struct {
	// Database handle
	Database *mongo.Database
}

// mongoRepository implements the Repository interface using MongoDB
type mongoRepository struct {
	members        *mongo.Collection
	channels       *mongo.Collection
	dmParticipants *mongo.Collection
	users          *mongo.Collection
}

// NewMongo creates a new Mongo-backed guilds repository
func NewMongo(cfg *Config) (*mongoRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Database == nil {
		return nil, errors.New("database cannot be nil")
	}

	return &mongoRepository{
		members:        cfg.Database.Collection(guildMembersCollection),
		channels:       cfg.Database.Collection(channelsCollection),
		dmParticipants: cfg.Database.Collection(dmParticipantsCollection),
		users:          cfg.Database.Collection(usersCollection),
	}, nil
}

// GetUserGuilds returns the guild ids the user belongs to.
func (r *mongoRepository) GetUserGuilds(ctx context.Context, input *GetUserGuildsInput) ([]string, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	cursor, err := r.members.Find(ctx, bson.M{"user_id": input.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to query guild memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []guildMemberDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode guild memberships: %w", err)
	}

	guildIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		guildIDs = append(guildIDs, doc.GuildID)
	}

	return guildIDs, nil
}

// GetChannelGuild returns the guild owning the channel.
func (r *mongoRepository) GetChannelGuild(ctx context.Context, input *GetChannelGuildInput) (string, error) {
	if input == nil || input.ChannelID == "" {
		return "", errors.New("input and channel ID cannot be empty")
	}

	var doc channelDocument
	err := r.channels.FindOne(ctx, bson.M{"_id": input.ChannelID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrChannelNotFound
		}
		return "", fmt.Errorf("failed to query channel: %w", err)
	}

	return doc.GuildID, nil
}

// IsGuildMember reports whether the user is a member of the guild.
func (r *mongoRepository) IsGuildMember(ctx context.Context, input *IsGuildMemberInput) (bool, error) {
	if input == nil || input.GuildID == "" || input.UserID == "" {
		return false, errors.New("input, guild ID and user ID cannot be empty")
	}

	count, err := r.members.CountDocuments(ctx, bson.M{
		"guild_id": input.GuildID,
		"user_id":  input.UserID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query guild membership: %w", err)
	}

	return count > 0, nil
}

// IsDMParticipant reports whether the user participates in the DM channel.
func (r *mongoRepository) IsDMParticipant(ctx context.Context, input *IsDMParticipantInput) (bool, error) {
	if input == nil || input.DMChannelID == "" || input.UserID == "" {
		return false, errors.New("input, DM channel ID and user ID cannot be empty")
	}

	count, err := r.dmParticipants.CountDocuments(ctx, bson.M{
		"dm_channel_id": input.DMChannelID,
		"user_id":       input.UserID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query DM participancy: %w", err)
	}

	return count > 0, nil
}

// UpdateUserStatus persists the user's status and last-seen timestamp.
func (r *mongoRepository) UpdateUserStatus(ctx context.Context, input *UpdateUserStatusInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": input.UserID},
		bson.M{"$set": bson.M{
			"status":    string(input.Status),
			"last_seen": input.LastSeen,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	return nil
}

// GetUsernames resolves display names for the given user ids. Unknown ids are
// simply absent from the result.
func (r *mongoRepository) GetUsernames(ctx context.Context, input *GetUsernamesInput) (map[string]string, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if len(input.UserIDs) == 0 {
		return map[string]string{}, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": input.UserIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	usernames := make(map[string]string, len(docs))
	for _, doc := range docs {
		usernames[doc.ID] = doc.Username
	}

	return usernames, nil
}
