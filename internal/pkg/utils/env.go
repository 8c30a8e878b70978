package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

func GetEnvString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error parsing %s: %v, will use default value %d", key, err, defaultValue)
		return defaultValue
	}
	return intValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error parsing %s: %v, will use default value %t", key, err, defaultValue)
		return defaultValue
	}
	return boolValue
}

func GetEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error parsing %s: %v, will use default value %v", key, err, defaultValue)
		return defaultValue
	}
	return floatValue
}

// GetEnvDuration accepts Go duration strings such as "30s" or "5m".
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error parsing %s: %v, will use default value %s", key, err, defaultValue)
		return defaultValue
	}
	return duration
}
