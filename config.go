package mealprep

import "time"

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=text"`
}

// StorageConfig selects the durable backend behind the household state.
type StorageConfig struct {
	Backend      string `env:"MEALPREP_STORAGE,default=file"`
	Dir          string `env:"MEALPREP_STORAGE_DIR,default=.mealprep"`
	S3Bucket     string `env:"MEALPREP_S3_BUCKET"`
	S3Prefix     string `env:"MEALPREP_S3_PREFIX,default=mealprep/"`
	RedisAddr    string `env:"MEALPREP_REDIS_ADDR,default=localhost:6379"`
	RedisPrefix  string `env:"MEALPREP_REDIS_PREFIX,default=mealprep"`
	RedisChannel string `env:"MEALPREP_REDIS_CHANNEL,default=mealprep:changes"`
}

type RecipeConfig struct {
	BaseURL string        `env:"SPOONACULAR_BASE_URL,default=https://api.spoonacular.com"`
	APIKey  string        `env:"SPOONACULAR_API_KEY"`
	Timeout time.Duration `env:"SPOONACULAR_TIMEOUT,default=10s"`
}

type NotifyConfig struct {
	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"SLACK_CHANNEL,default=#groceries"`
}
