package parameters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
	"github.com/KirkDiggler/sceneview/internal/repositories/parameters"
	"github.com/KirkDiggler/sceneview/internal/testutils"
)

// RepositoryContractSuite runs the same behaviour checks against every Repository implementation
type RepositoryContractSuite struct {
	suite.Suite
	newRepo func(t *testing.T) parameters.Repository
	repo    parameters.Repository
	ctx     context.Context
}

func (s *RepositoryContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo(s.T())
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryContractSuite{
		newRepo: func(*testing.T) parameters.Repository { return parameters.NewInMemoryRepository() },
	})
}

func TestMiniRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryContractSuite{
		newRepo: func(t *testing.T) parameters.Repository {
			_, client := testutils.CreateMiniRedisClient(t)
			return parameters.NewRedis(client)
		},
	})
}

func (s *RepositoryContractSuite) TestSaveAndGet() {
	p := rendering.Defaults()
	p.EffectVignetteEnable = true
	p.EffectVignetteColor = "#102030"

	s.Require().NoError(s.repo.Save(s.ctx, "plant", p))

	got, err := s.repo.Get(s.ctx, "plant")
	s.Require().NoError(err)
	s.Equal(p, got)
}

func (s *RepositoryContractSuite) TestSaveStoresACopy() {
	p := rendering.Defaults()
	s.Require().NoError(s.repo.Save(s.ctx, "plant", p))

	p.EffectBloomEnable = true

	got, err := s.repo.Get(s.ctx, "plant")
	s.Require().NoError(err)
	s.False(got.EffectBloomEnable)

	got.EffectGrainEnable = true
	again, err := s.repo.Get(s.ctx, "plant")
	s.Require().NoError(err)
	s.False(again.EffectGrainEnable)
}

func (s *RepositoryContractSuite) TestSaveReplaces() {
	first := rendering.Defaults()
	second := rendering.Defaults()
	second.SceneCameraView = 70

	s.Require().NoError(s.repo.Save(s.ctx, "plant", first))
	s.Require().NoError(s.repo.Save(s.ctx, "plant", second))

	got, err := s.repo.Get(s.ctx, "plant")
	s.Require().NoError(err)
	s.Equal(70.0, got.SceneCameraView)

	ids, err := s.repo.ListScenes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"plant"}, ids)
}

func (s *RepositoryContractSuite) TestSaveRejectsInvalid() {
	bad := rendering.Defaults()
	bad.EffectOutlineEdgeThickness = 0

	s.True(errors.IsValidation(s.repo.Save(s.ctx, "plant", bad)))
	s.True(errors.IsInvalidArgument(s.repo.Save(s.ctx, "", rendering.Defaults())))
	s.True(errors.IsInvalidArgument(s.repo.Save(s.ctx, "plant", nil)))

	_, err := s.repo.Get(s.ctx, "plant")
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryContractSuite) TestDelete() {
	s.Require().NoError(s.repo.Save(s.ctx, "plant", rendering.Defaults()))

	s.Require().NoError(s.repo.Delete(s.ctx, "plant"))

	_, err := s.repo.Get(s.ctx, "plant")
	s.True(errors.IsNotFound(err))
	s.True(errors.IsNotFound(s.repo.Delete(s.ctx, "plant")))

	ids, err := s.repo.ListScenes(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}

func (s *RepositoryContractSuite) TestListAndLoadAll() {
	for _, id := range []string{"yard", "office", "plant"} {
		p := rendering.Defaults()
		p.SceneBackgroundImageSelect = id
		s.Require().NoError(s.repo.Save(s.ctx, id, p))
	}

	ids, err := s.repo.ListScenes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"office", "plant", "yard"}, ids)

	all, err := s.repo.LoadAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
	for id, p := range all {
		s.Equal(id, p.SceneBackgroundImageSelect)
	}
}

func TestMiniRedisRepository_SkipsStaleIndexEntries(t *testing.T) {
	mr, client := testutils.CreateMiniRedisClient(t)
	repo := parameters.NewRedis(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "plant", rendering.Defaults()))
	require.NoError(t, repo.Save(ctx, "yard", rendering.Defaults()))
	mr.Del("parameters:yard")

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "plant")

	stored, err := mr.Get("parameters:plant")
	require.NoError(t, err)
	assert.Contains(t, stored, `"earlyZEnable":true`)
}
