package rendering_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
)

func TestDefaults(t *testing.T) {
	p := rendering.Defaults()

	assert.True(t, p.EarlyZEnable)
	assert.Equal(t, 45.0, p.SceneCameraView)
	assert.Equal(t, rendering.BackgroundColor, p.SceneBackgroundType)
	assert.Equal(t, "#000000", p.SceneBackgroundColor)
	assert.Empty(t, p.SceneBackgroundImageSelect)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, p.SceneDynamicSkyUp)
	assert.Equal(t, 10.0, p.EffectSSAORadius)
	assert.Equal(t, rendering.ToneMappingLinear, p.EffectToneMappingType)
	assert.Equal(t, rendering.StyleBlackWhite, p.EffectStyleType)
	assert.Equal(t, 3.0, p.EffectOutlineEdgeStrength)
	assert.Equal(t, "#11ff88", p.EffectRotateCenterColor)

	require.NoError(t, p.Validate(), "defaults must satisfy their own constraints")
}

func TestKeys(t *testing.T) {
	keys := rendering.Keys()

	require.NotEmpty(t, keys)
	assert.Equal(t, "earlyZEnable", keys[0])
	assert.Equal(t, "effectRotateCenterFactor", keys[len(keys)-1])
	assert.Contains(t, keys, "sceneDynamicSkyUp")

	seen := make(map[string]bool)
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestGet(t *testing.T) {
	p := rendering.Defaults()

	v, err := p.Get("effectBloomThreshold")
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	_, err = p.Get("effectLensFlare")
	assert.True(t, errors.IsNotFound(err))
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  any
	}{
		{name: "float", key: "effectBloomIntensity", value: 1.5, want: 1.5},
		{name: "int widened", key: "sceneCameraView", value: 60, want: 60.0},
		{name: "float32", key: "effectGrainFactor", value: float32(0.25), want: 0.25},
		{name: "numeric string", key: "effectSSAORadius", value: "12", want: 12.0},
		{name: "bool", key: "effectOutlineEnable", value: true, want: true},
		{name: "bool string", key: "earlyZEnable", value: "false", want: false},
		{name: "enum", key: "sceneBackgroundType", value: rendering.BackgroundSky, want: rendering.BackgroundSky},
		{name: "colour", key: "effectVignetteColor", value: "#FF8800", want: "#FF8800"},
		{name: "free string", key: "sceneBackgroundImageSelect", value: "studio", want: "studio"},
		{name: "vector slice", key: "sceneDynamicSkyUp", value: []float64{0, 0, 1}, want: mgl32.Vec3{0, 0, 1}},
		{name: "vector string", key: "sceneDynamicSkyUp", value: "1,0,0", want: mgl32.Vec3{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rendering.Defaults()

			require.NoError(t, p.Set(tt.key, tt.value))

			got, err := p.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		check func(error) bool
	}{
		{name: "unknown key", key: "effectLensFlare", value: 1, check: errors.IsNotFound},
		{name: "below range", key: "effectSSAORadius", value: 2, check: errors.IsValidation},
		{name: "above range", key: "effectOutlineEdgeThickness", value: 5, check: errors.IsValidation},
		{name: "enum", key: "effectToneMappingType", value: "TONEMAPPING_MAGIC", check: errors.IsValidation},
		{name: "colour", key: "sceneBackgroundColor", value: "black", check: errors.IsValidation},
		{name: "wrong type", key: "effectBloomEnable", value: 3, check: errors.IsInvalidArgument},
		{name: "not a number", key: "effectBloomRadius", value: "wide", check: errors.IsInvalidArgument},
		{name: "short vector", key: "sceneDynamicSkyUp", value: []float32{0, 1}, check: errors.IsInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rendering.Defaults()
			before := p.Clone()

			err := p.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			if diff := cmp.Diff(before, p); diff != "" {
				t.Errorf("rejected Set modified the parameter (-before +after):\n%s", diff)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	p := rendering.Defaults()
	p.EffectBloomIntensity = 3
	p.EffectOutlineVisibleEdgeColor = "white"
	p.SceneBackgroundType = "BACKGROUND_VIDEO"

	err := p.Validate()

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 3, errors.GetMeta(err)["violations"])
	assert.Contains(t, err.Error(), "effectBloomIntensity")
	assert.Contains(t, err.Error(), "effectOutlineVisibleEdgeColor")
	assert.Contains(t, err.Error(), "sceneBackgroundType")
}

func TestClone(t *testing.T) {
	p := rendering.Defaults()
	c := p.Clone()

	c.SceneDynamicSkyUp[1] = 0
	c.EffectBloomEnable = true

	assert.Equal(t, mgl32.Vec3{0, 1, 0}, p.SceneDynamicSkyUp)
	assert.False(t, p.EffectBloomEnable)

	var missing *rendering.Parameter
	assert.Nil(t, missing.Clone())
}

func TestMergeYAML(t *testing.T) {
	p := rendering.Defaults()

	err := p.MergeYAML([]byte(`
sceneBackgroundType: BACKGROUND_SKY
effectOutlineEnable: true
effectOutlineEdgeStrength: 5
sceneDynamicSkyUp: [0, 0, 1]
`))
	require.NoError(t, err)

	want := rendering.Defaults()
	want.SceneBackgroundType = rendering.BackgroundSky
	want.EffectOutlineEnable = true
	want.EffectOutlineEdgeStrength = 5
	want.SceneDynamicSkyUp = mgl32.Vec3{0, 0, 1}

	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("MergeYAML mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeYAML_LeavesParameterOnFailure(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown key", doc: "effectLensFlare: true\n"},
		{name: "out of range", doc: "effectBloomEnable: true\neffectBloomIntensity: 9\n"},
		{name: "malformed", doc: "effectBloomIntensity: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rendering.Defaults()

			require.Error(t, p.MergeYAML([]byte(tt.doc)))

			if diff := cmp.Diff(rendering.Defaults(), p); diff != "" {
				t.Errorf("failed merge modified the parameter (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeYAML_Empty(t *testing.T) {
	p := rendering.Defaults()
	assert.NoError(t, p.MergeYAML(nil))
	assert.NoError(t, p.MergeYAML([]byte("\n")))
}

func TestMergeNode(t *testing.T) {
	var doc struct {
		Parameter yaml.Node `yaml:"parameter"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("parameter:\n  effectGrainEnable: true\n  effectGrainFactor: 0.3\n"), &doc))

	p := rendering.Defaults()
	require.NoError(t, p.MergeNode(&doc.Parameter))

	assert.True(t, p.EffectGrainEnable)
	assert.Equal(t, 0.3, p.EffectGrainFactor)

	assert.NoError(t, p.MergeNode(nil))
}

func TestDiff(t *testing.T) {
	a := rendering.Defaults()
	b := a.Clone()
	b.EffectSSAOEnable = true
	b.SceneBackgroundColor = "#202020"

	assert.Equal(t, []string{"sceneBackgroundColor", "effectSSAOEnable"}, rendering.Diff(a, b))
	assert.Empty(t, rendering.Diff(a, a.Clone()))
	assert.Nil(t, rendering.Diff(nil, nil))
	assert.Equal(t, rendering.Keys(), rendering.Diff(nil, a))
}

func TestBackgroundUsesImage(t *testing.T) {
	p := rendering.Defaults()
	assert.False(t, p.BackgroundUsesImage())

	p.SceneBackgroundType = rendering.BackgroundEnv
	assert.True(t, p.BackgroundUsesImage())
}
