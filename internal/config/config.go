package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vllmd/internal/common/fsutil"
)

// Config holds runtime parameters for the launcher, the health sidecar and
// the adapter resolver. Values come from an optional config file overridden
// by environment variables; zero values fall back to Default().
type Config struct {
	ModelID    string `json:"model_id" yaml:"model_id" toml:"model_id"`
	Host       string `json:"host" yaml:"host" toml:"host"`
	Port       int    `json:"port" yaml:"port" toml:"port"`
	HealthPort int    `json:"health_port" yaml:"health_port" toml:"health_port"`

	// Adapter (LoRA) limits forwarded to the engine.
	MaxAdapters    int `json:"max_adapters" yaml:"max_adapters" toml:"max_adapters"`
	MaxAdapterRank int `json:"max_adapter_rank" yaml:"max_adapter_rank" toml:"max_adapter_rank"`
	MaxCPUAdapters int `json:"max_cpu_adapters" yaml:"max_cpu_adapters" toml:"max_cpu_adapters"`

	CacheDir string `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`

	APIKey   string `json:"api_key" yaml:"api_key" toml:"api_key"`
	HubToken string `json:"hub_token" yaml:"hub_token" toml:"hub_token"`

	EnableAutoToolChoice bool   `json:"enable_auto_tool_choice" yaml:"enable_auto_tool_choice" toml:"enable_auto_tool_choice"`
	ToolCallParser       string `json:"tool_call_parser" yaml:"tool_call_parser" toml:"tool_call_parser"`

	CopyChatTemplate bool `json:"copy_chat_template" yaml:"copy_chat_template" toml:"copy_chat_template"`

	// Timeout for one adapter fetch from the hub. Zero disables the deadline.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds" toml:"fetch_timeout_seconds"`

	// Multimodal fetch timeouts and per-prompt limits forwarded to the engine.
	ImageFetchTimeout  int `json:"image_fetch_timeout" yaml:"image_fetch_timeout" toml:"image_fetch_timeout"`
	VideoFetchTimeout  int `json:"video_fetch_timeout" yaml:"video_fetch_timeout" toml:"video_fetch_timeout"`
	AudioFetchTimeout  int `json:"audio_fetch_timeout" yaml:"audio_fetch_timeout" toml:"audio_fetch_timeout"`
	MaxImagesPerPrompt int `json:"max_images_per_prompt" yaml:"max_images_per_prompt" toml:"max_images_per_prompt"`
	MaxVideosPerPrompt int `json:"max_videos_per_prompt" yaml:"max_videos_per_prompt" toml:"max_videos_per_prompt"`
	MaxAudiosPerPrompt int `json:"max_audios_per_prompt" yaml:"max_audios_per_prompt" toml:"max_audios_per_prompt"`

	EngineBin string `json:"engine_bin" yaml:"engine_bin" toml:"engine_bin"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ModelID:              "meta-llama/Llama-3.2-1B-Instruct",
		Host:                 "0.0.0.0",
		Port:                 8000,
		HealthPort:           8001,
		MaxAdapters:          10,
		MaxAdapterRank:       16,
		MaxCPUAdapters:       5,
		CacheDir:             ".cache/huggingface",
		EnableAutoToolChoice: true,
		CopyChatTemplate:     true,
		ImageFetchTimeout:    5,
		VideoFetchTimeout:    30,
		AudioFetchTimeout:    10,
		MaxImagesPerPrompt:   4,
		MaxVideosPerPrompt:   1,
		MaxAudiosPerPrompt:   1,
		EngineBin:            "vllm",
		LogLevel:             "info",
	}
}

// FromEnv returns Default() with every recognized environment variable applied.
func FromEnv() Config {
	cfg := Default()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides fields from environment variables. Unset or empty
// variables leave the current value alone; unparseable numbers do too.
func (c *Config) ApplyEnv() {
	envStr("MODEL_ID", &c.ModelID)
	envStr("HOST", &c.Host)
	envInt("PORT", &c.Port)
	envInt("PORT_HEALTH", &c.HealthPort)
	envInt("MAX_LORAS", &c.MaxAdapters)
	envInt("MAX_LORA_RANK", &c.MaxAdapterRank)
	envInt("MAX_CPU_LORAS", &c.MaxCPUAdapters)
	envStr("CACHE_DIR", &c.CacheDir)
	envStr("API_KEY", &c.APIKey)
	envStr("HF_TOKEN", &c.HubToken)
	envBool("ENABLE_AUTO_TOOL_CHOICE", &c.EnableAutoToolChoice)
	envStr("TOOL_CALL_PARSER", &c.ToolCallParser)
	envBool("COPY_CHAT_TEMPLATE", &c.CopyChatTemplate)
	envInt("HF_FETCH_TIMEOUT", &c.FetchTimeoutSeconds)
	envInt("IMAGE_FETCH_TIMEOUT", &c.ImageFetchTimeout)
	envInt("VIDEO_FETCH_TIMEOUT", &c.VideoFetchTimeout)
	envInt("AUDIO_FETCH_TIMEOUT", &c.AudioFetchTimeout)
	envInt("MAX_IMAGES_PER_PROMPT", &c.MaxImagesPerPrompt)
	envInt("MAX_VIDEOS_PER_PROMPT", &c.MaxVideosPerPrompt)
	envInt("MAX_AUDIOS_PER_PROMPT", &c.MaxAudiosPerPrompt)
	envStr("VLLMD_ENGINE_BIN", &c.EngineBin)
	envStr("VLLMD_LOG_LEVEL", &c.LogLevel)
}

// FetchTimeout returns the adapter fetch deadline as a duration.
func (c Config) FetchTimeout() time.Duration {
	if c.FetchTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ExpandedCacheDir resolves a leading '~' in CacheDir.
func (c Config) ExpandedCacheDir() (string, error) {
	return fsutil.ExpandHome(c.CacheDir)
}

// ModelCachePath returns where the external download mechanism materializes
// the base model's snapshot tree.
func (c Config) ModelCachePath() string {
	return filepath.Join(c.CacheDir, "models--"+strings.ReplaceAll(c.ModelID, "/", "--"))
}

// IsModelCached reports whether the base model was pre-downloaded.
func (c Config) IsModelCached() bool {
	return fsutil.PathExists(c.ModelCachePath())
}

// EngineEnv returns the environment variables exported to the engine process,
// in addition to the inherited environment.
func (c Config) EngineEnv() []string {
	env := []string{
		"VLLM_ALLOW_RUNTIME_LORA_UPDATING=True",
		"HF_HOME=" + c.CacheDir,
		"TRANSFORMERS_CACHE=" + c.CacheDir,
	}
	if c.ImageFetchTimeout > 0 {
		env = append(env, "VLLM_IMAGE_FETCH_TIMEOUT="+strconv.Itoa(c.ImageFetchTimeout))
	}
	if c.VideoFetchTimeout > 0 {
		env = append(env, "VLLM_VIDEO_FETCH_TIMEOUT="+strconv.Itoa(c.VideoFetchTimeout))
	}
	if c.AudioFetchTimeout > 0 {
		env = append(env, "VLLM_AUDIO_FETCH_TIMEOUT="+strconv.Itoa(c.AudioFetchTimeout))
	}
	if c.HubToken != "" {
		env = append(env, "HF_TOKEN="+c.HubToken)
	}
	return env
}

func envStr(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*dst = n
}

// envBool accepts true/1/yes/on (case-insensitive) as true; anything else is false.
func envBool(name string, dst *bool) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		*dst = true
	default:
		*dst = false
	}
}
