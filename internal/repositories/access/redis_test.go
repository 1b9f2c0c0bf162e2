package access

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	ctx    context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSetAndGetAllowedDecision() {
	err := s.repo.SetDecision(s.ctx, &SetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-1",
		Scope:      ScopeChannel,
		Allowed:    true,
		TTL:        5 * time.Minute,
	})
	s.Require().NoError(err)

	out, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-1",
		Scope:      ScopeChannel,
	})
	s.Require().NoError(err)
	s.True(out.Found)
	s.True(out.Allowed)

	// Denials and grants share the key shape, distinguished by value
	value, err := s.mr.Get("access:channel:user-1:channel-1")
	s.Require().NoError(err)
	s.Equal("1", value)
}

func (s *RedisRepositoryTestSuite) TestSetAndGetDeniedDecision() {
	err := s.repo.SetDecision(s.ctx, &SetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-9",
		Scope:      ScopeChannel,
		Allowed:    false,
		TTL:        5 * time.Minute,
	})
	s.Require().NoError(err)

	out, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-9",
		Scope:      ScopeChannel,
	})
	s.Require().NoError(err)
	s.True(out.Found)
	s.False(out.Allowed)

	value, err := s.mr.Get("access:channel:user-1:channel-9")
	s.Require().NoError(err)
	s.Equal("0", value)
}

func (s *RedisRepositoryTestSuite) TestMissingDecision() {
	out, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-1",
		Scope:      ScopeChannel,
	})
	s.Require().NoError(err)
	s.False(out.Found)
}

func (s *RedisRepositoryTestSuite) TestScopesAreIsolated() {
	err := s.repo.SetDecision(s.ctx, &SetDecisionInput{
		UserID:     "user-1",
		ResourceID: "room-1",
		Scope:      ScopeChannel,
		Allowed:    true,
		TTL:        time.Minute,
	})
	s.Require().NoError(err)

	out, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{
		UserID:     "user-1",
		ResourceID: "room-1",
		Scope:      ScopeDM,
	})
	s.Require().NoError(err)
	s.False(out.Found)
}

func (s *RedisRepositoryTestSuite) TestDecisionExpires() {
	err := s.repo.SetDecision(s.ctx, &SetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-1",
		Scope:      ScopeChannel,
		Allowed:    true,
		TTL:        time.Minute,
	})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)

	out, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{
		UserID:     "user-1",
		ResourceID: "channel-1",
		Scope:      ScopeChannel,
	})
	s.Require().NoError(err)
	s.False(out.Found)
}

func (s *RedisRepositoryTestSuite) TestEmptyInputRejected() {
	_, err := s.repo.GetDecision(s.ctx, &GetDecisionInput{Scope: ScopeChannel})
	s.Error(err)

	err = s.repo.SetDecision(s.ctx, nil)
	s.Error(err)
}
