package middlewares

import "time"

// StrictRateLimiterConfig for signup, login and avatar uploads
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 15,
	}
}

// ModerateRateLimiterConfig for normal API endpoints
func ModerateRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 5,
	}
}

// LenientRateLimiterConfig for read-heavy endpoints
func LenientRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 200,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 2,
	}
}

// MessageSendingRateLimiterConfig for message sending
func MessageSendingRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 10,
	}
}
