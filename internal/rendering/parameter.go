// Package rendering holds the per-scene rendering parameter set: a flat
// configuration of background, lighting and post-processing options with
// documented defaults and ranges.
//
// Parameters are addressed by their camelCase key (the yaml/json tag), e.g.
// "effectBloomIntensity". Range, enum and colour constraints live in struct
// tags and are enforced by Set and Validate.
package rendering

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Background types
const (
	BackgroundColor = "BACKGROUND_COLOR"
	BackgroundImage = "BACKGROUND_IMAGE"
	BackgroundEnv   = "BACKGROUND_ENV"
	BackgroundSky   = "BACKGROUND_SKY"
)

// Tone mapping operators
const (
	ToneMappingLinear   = "TONEMAPPING_LINEAR"
	ToneMappingReinhard = "TONEMAPPING_REINHARD"
	ToneMappingFilmic   = "TONEMAPPING_FILMIC"
	ToneMappingHejl     = "TONEMAPPING_HEJL"
	ToneMappingACES     = "TONEMAPPING_ACES"
)

// Stylize effects
const (
	StyleBlackWhite = "STYLE_BW"
	StyleSingle     = "STYLE_SINGLE"
)

// Parameter is the rendering configuration of one scene
type Parameter struct {
	// Pipeline
	EarlyZEnable bool `yaml:"earlyZEnable" json:"earlyZEnable"`

	// Scene camera
	SceneCameraView float64 `yaml:"sceneCameraView" json:"sceneCameraView" range:"1,179"`

	// Scene background
	SceneBackgroundType            string     `yaml:"sceneBackgroundType" json:"sceneBackgroundType" enum:"BACKGROUND_COLOR|BACKGROUND_IMAGE|BACKGROUND_ENV|BACKGROUND_SKY"`
	SceneBackgroundColor           string     `yaml:"sceneBackgroundColor" json:"sceneBackgroundColor" format:"color"`
	SceneBackgroundImageSelect     string     `yaml:"sceneBackgroundImageSelect,omitempty" json:"sceneBackgroundImageSelect,omitempty"`
	SceneBackgroundEnvBrightness   float64    `yaml:"sceneBackgroundEnvBrightness" json:"sceneBackgroundEnvBrightness" range:"0,10"`
	SceneDynamicSkyTurbidity       float64    `yaml:"sceneDynamicSkyTurbidity" json:"sceneDynamicSkyTurbidity" range:"0,20"`
	SceneDynamicSkyRayleigh        float64    `yaml:"sceneDynamicSkyRayleigh" json:"sceneDynamicSkyRayleigh" range:"0,4"`
	SceneDynamicSkyMieCoefficient  float64    `yaml:"sceneDynamicSkyMieCoefficient" json:"sceneDynamicSkyMieCoefficient" range:"0,0.1"`
	SceneDynamicSkyMieDirectionalG float64    `yaml:"sceneDynamicSkyMieDirectionalG" json:"sceneDynamicSkyMieDirectionalG" range:"0,1"`
	SceneDynamicSkyInclination     float64    `yaml:"sceneDynamicSkyInclination" json:"sceneDynamicSkyInclination" range:"0,1"`
	SceneDynamicSkyAzimuth         float64    `yaml:"sceneDynamicSkyAzimuth" json:"sceneDynamicSkyAzimuth" range:"0,1"`
	SceneDynamicSkyUp              mgl32.Vec3 `yaml:"sceneDynamicSkyUp,flow" json:"sceneDynamicSkyUp"`

	// Environment light
	LightEnvironmentEnable      bool    `yaml:"lightEnvironmentEnable" json:"lightEnvironmentEnable"`
	LightEnvironmentSelect      string  `yaml:"lightEnvironmentSelect,omitempty" json:"lightEnvironmentSelect,omitempty"`
	LightEnvironmentOrientation float64 `yaml:"lightEnvironmentOrientation" json:"lightEnvironmentOrientation" range:"0,360"`
	LightEnvironmentBrightness  float64 `yaml:"lightEnvironmentBrightness" json:"lightEnvironmentBrightness" range:"0,10"`

	// Screen space reflection
	EffectScreenSpaceReflectionEnable bool    `yaml:"effectScreenSpaceReflectionEnable" json:"effectScreenSpaceReflectionEnable"`
	EffectScreenSpaceReflectionFactor float64 `yaml:"effectScreenSpaceReflectionFactor" json:"effectScreenSpaceReflectionFactor" range:"0,1"`

	// Ambient occlusion
	EffectSSAOEnable    bool    `yaml:"effectSSAOEnable" json:"effectSSAOEnable"`
	EffectSSAORadius    float64 `yaml:"effectSSAORadius" json:"effectSSAORadius" range:"4,42"`
	EffectSSAOIntensity float64 `yaml:"effectSSAOIntensity" json:"effectSSAOIntensity" range:"0,1"`
	EffectSSAOBias      float64 `yaml:"effectSSAOBias" json:"effectSSAOBias" range:"0.8,4.2"`

	// Film grain
	EffectGrainEnable   bool    `yaml:"effectGrainEnable" json:"effectGrainEnable"`
	EffectGrainAnimated bool    `yaml:"effectGrainAnimated" json:"effectGrainAnimated"`
	EffectGrainFactor   float64 `yaml:"effectGrainFactor" json:"effectGrainFactor" range:"0,0.5"`

	// Depth of field
	EffectDepthOfFieldEnable         bool    `yaml:"effectDepthOfFieldEnable" json:"effectDepthOfFieldEnable"`
	EffectDepthOfFieldForegroundBlur float64 `yaml:"effectDepthOfFieldForegroundBlur" json:"effectDepthOfFieldForegroundBlur" range:"0,1"`
	EffectDepthOfFieldBackgroundBlur float64 `yaml:"effectDepthOfFieldBackgroundBlur" json:"effectDepthOfFieldBackgroundBlur" range:"0,1"`
	EffectDepthOfFieldCrossFactor    float64 `yaml:"effectDepthOfFieldCrossFactor" json:"effectDepthOfFieldCrossFactor" range:"0,1"`

	EffectSharpnessEnable bool    `yaml:"effectSharpnessEnable" json:"effectSharpnessEnable"`
	EffectSharpnessFactor float64 `yaml:"effectSharpnessFactor" json:"effectSharpnessFactor" range:"0,5"`

	EffectChromaticAberrationsEnable bool    `yaml:"effectChromaticAberrationsEnable" json:"effectChromaticAberrationsEnable"`
	EffectChromaticAberrationsFactor float64 `yaml:"effectChromaticAberrationsFactor" json:"effectChromaticAberrationsFactor" range:"0,0.1"`

	EffectVignetteEnable   bool    `yaml:"effectVignetteEnable" json:"effectVignetteEnable"`
	EffectVignetteAmount   float64 `yaml:"effectVignetteAmount" json:"effectVignetteAmount" range:"0,1"`
	EffectVignetteHardness float64 `yaml:"effectVignetteHardness" json:"effectVignetteHardness" range:"0,1"`
	EffectVignetteColor    string  `yaml:"effectVignetteColor" json:"effectVignetteColor" format:"color"`

	EffectBloomEnable    bool    `yaml:"effectBloomEnable" json:"effectBloomEnable"`
	EffectBloomThreshold float64 `yaml:"effectBloomThreshold" json:"effectBloomThreshold" range:"0,1"`
	EffectBloomIntensity float64 `yaml:"effectBloomIntensity" json:"effectBloomIntensity" range:"0,2"`
	EffectBloomRadius    float64 `yaml:"effectBloomRadius" json:"effectBloomRadius" range:"0,1"`
	EffectBloomRatio     float64 `yaml:"effectBloomRatio" json:"effectBloomRatio" range:"0,1"`

	EffectToneMappingEnable     bool    `yaml:"effectToneMappingEnable" json:"effectToneMappingEnable"`
	EffectToneMappingType       string  `yaml:"effectToneMappingType" json:"effectToneMappingType" enum:"TONEMAPPING_LINEAR|TONEMAPPING_REINHARD|TONEMAPPING_FILMIC|TONEMAPPING_HEJL|TONEMAPPING_ACES"`
	EffectToneMappingExposure   float64 `yaml:"effectToneMappingExposure" json:"effectToneMappingExposure" range:"0,2"`
	EffectToneMappingBrightness float64 `yaml:"effectToneMappingBrightness" json:"effectToneMappingBrightness" range:"-1,1"`
	EffectToneMappingContrast   float64 `yaml:"effectToneMappingContrast" json:"effectToneMappingContrast" range:"-1,1"`
	EffectToneMappingSaturation float64 `yaml:"effectToneMappingSaturation" json:"effectToneMappingSaturation" range:"0,2"`

	EffectColorBalanceEnable         bool    `yaml:"effectColorBalanceEnable" json:"effectColorBalanceEnable"`
	EffectColorBalanceShadowRed      float64 `yaml:"effectColorBalanceShadowRed" json:"effectColorBalanceShadowRed" range:"-1,1"`
	EffectColorBalanceShadowGreen    float64 `yaml:"effectColorBalanceShadowGreen" json:"effectColorBalanceShadowGreen" range:"-1,1"`
	EffectColorBalanceShadowBlue     float64 `yaml:"effectColorBalanceShadowBlue" json:"effectColorBalanceShadowBlue" range:"-1,1"`
	EffectColorBalanceMidRed         float64 `yaml:"effectColorBalanceMidRed" json:"effectColorBalanceMidRed" range:"-1,1"`
	EffectColorBalanceMidGreen       float64 `yaml:"effectColorBalanceMidGreen" json:"effectColorBalanceMidGreen" range:"-1,1"`
	EffectColorBalanceMidBlue        float64 `yaml:"effectColorBalanceMidBlue" json:"effectColorBalanceMidBlue" range:"-1,1"`
	EffectColorBalanceHighLightRed   float64 `yaml:"effectColorBalanceHighLightRed" json:"effectColorBalanceHighLightRed" range:"-1,1"`
	EffectColorBalanceHighLightGreen float64 `yaml:"effectColorBalanceHighLightGreen" json:"effectColorBalanceHighLightGreen" range:"-1,1"`
	EffectColorBalanceHighLightBlue  float64 `yaml:"effectColorBalanceHighLightBlue" json:"effectColorBalanceHighLightBlue" range:"-1,1"`

	// Stylize
	EffectStyleEnable          bool    `yaml:"effectStyleEnable" json:"effectStyleEnable"`
	EffectStyleType            string  `yaml:"effectStyleType" json:"effectStyleType" enum:"STYLE_BW|STYLE_SINGLE"`
	EffectStyleBlackOrWhiteAvg float64 `yaml:"effectStyleBlackOrWhiteAvg" json:"effectStyleBlackOrWhiteAvg" range:"0,1"`
	EffectStyleSingleR         float64 `yaml:"effectStyleSingleR" json:"effectStyleSingleR" range:"0,1"`
	EffectStyleSingleG         float64 `yaml:"effectStyleSingleG" json:"effectStyleSingleG" range:"0,1"`
	EffectStyleSingleB         float64 `yaml:"effectStyleSingleB" json:"effectStyleSingleB" range:"0,1"`

	// Selection outline
	EffectOutlineEnable               bool    `yaml:"effectOutlineEnable" json:"effectOutlineEnable"`
	EffectOutlineEdgeStrength         float64 `yaml:"effectOutlineEdgeStrength" json:"effectOutlineEdgeStrength" range:"0,10"`
	EffectOutlineEdgeGlow             float64 `yaml:"effectOutlineEdgeGlow" json:"effectOutlineEdgeGlow" range:"0,1"`
	EffectOutlineEdgeThickness        float64 `yaml:"effectOutlineEdgeThickness" json:"effectOutlineEdgeThickness" range:"1,4"`
	EffectOutlinePulsePeriod          float64 `yaml:"effectOutlinePulsePeriod" json:"effectOutlinePulsePeriod" range:"0,5"`
	EffectOutlinePatternTextureEnable bool    `yaml:"effectOutlinePatternTextureEnable" json:"effectOutlinePatternTextureEnable"`
	EffectOutlinePatternTextureSelect string  `yaml:"effectOutlinePatternTextureSelect,omitempty" json:"effectOutlinePatternTextureSelect,omitempty"`
	EffectOutlineVisibleEdgeColor     string  `yaml:"effectOutlineVisibleEdgeColor" json:"effectOutlineVisibleEdgeColor" format:"color"`
	EffectOutlineHiddenEdgeColor      string  `yaml:"effectOutlineHiddenEdgeColor" json:"effectOutlineHiddenEdgeColor" format:"color"`

	// Orbit centre marker
	EffectRotateCenterEnable bool    `yaml:"effectRotateCenterEnable" json:"effectRotateCenterEnable"`
	EffectRotateCenterColor  string  `yaml:"effectRotateCenterColor" json:"effectRotateCenterColor" format:"color"`
	EffectRotateCenterFactor float64 `yaml:"effectRotateCenterFactor" json:"effectRotateCenterFactor" range:"0,10"`
}

// Defaults returns a parameter set with every option at its default
func Defaults() *Parameter {
	return &Parameter{
		EarlyZEnable: true,

		SceneCameraView: 45,

		SceneBackgroundType:            BackgroundColor,
		SceneBackgroundColor:           "#000000",
		SceneBackgroundEnvBrightness:   1.0,
		SceneDynamicSkyTurbidity:       10,
		SceneDynamicSkyRayleigh:        3,
		SceneDynamicSkyMieCoefficient:  0.005,
		SceneDynamicSkyMieDirectionalG: 0.7,
		SceneDynamicSkyInclination:     0.49,
		SceneDynamicSkyAzimuth:         0.25,
		SceneDynamicSkyUp:              mgl32.Vec3{0, 1, 0},

		LightEnvironmentOrientation: 0,
		LightEnvironmentBrightness:  1,

		EffectScreenSpaceReflectionFactor: 1.0,

		EffectSSAORadius:    10,
		EffectSSAOIntensity: 0.5,
		EffectSSAOBias:      2,

		EffectGrainFactor: 0.15,

		EffectDepthOfFieldForegroundBlur: 0.5,
		EffectDepthOfFieldBackgroundBlur: 0.5,
		EffectDepthOfFieldCrossFactor:    1.0,

		EffectSharpnessFactor: 1.0,

		EffectChromaticAberrationsFactor: 0.03,

		EffectVignetteAmount:   0.7,
		EffectVignetteHardness: 0.4,
		EffectVignetteColor:    "#000000",

		EffectBloomThreshold: 0.7,
		EffectBloomIntensity: 0.5,
		EffectBloomRadius:    0.7,
		EffectBloomRatio:     1.0,

		EffectToneMappingType:       ToneMappingLinear,
		EffectToneMappingExposure:   1.0,
		EffectToneMappingSaturation: 1.0,

		EffectStyleType:            StyleBlackWhite,
		EffectStyleBlackOrWhiteAvg: 0.5,
		EffectStyleSingleR:         1.0,
		EffectStyleSingleG:         1.0,
		EffectStyleSingleB:         1.0,

		EffectOutlineEdgeStrength:     3,
		EffectOutlineEdgeGlow:         0,
		EffectOutlineEdgeThickness:    1,
		EffectOutlinePulsePeriod:      0,
		EffectOutlineVisibleEdgeColor: "#ffffff",
		EffectOutlineHiddenEdgeColor:  "#1e1e1e",

		EffectRotateCenterColor:  "#11ff88",
		EffectRotateCenterFactor: 1.0,
	}
}

// Clone returns an independent copy. Parameter holds only values, so a
// struct copy is enough.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// BackgroundUsesImage reports whether the background type reads
// SceneBackgroundImageSelect
func (p *Parameter) BackgroundUsesImage() bool {
	return p.SceneBackgroundType == BackgroundImage || p.SceneBackgroundType == BackgroundEnv
}
