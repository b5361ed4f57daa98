// Package config loads livelayout settings from TOML.
//
// A complete file with the default values:
//
//	[store]
//	max_cache_size = 256
//
//	[animation]
//	interval = "10ms"
//	iterations_per_tick = 2
//	stop_when_converged = false
//
//	[placement]
//	initial = "circle"
//	adding = "random"
//	radius = 100.0
//	spacing = 50.0
//	columns = 0
//	width = 200.0
//	height = 200.0
//	seed = 1
//
//	[engine]
//	ideal_length = 50.0
//	initial_temperature = 10.0
//	cooling = 0.95
//	min_temperature = 0.01
//	min_distance = 0.1
//	threshold = 0.05
//	seed = 1
//
//	[serve]
//	addr = ":8080"
//	redis_addr = ""
//	redis_channel = "livelayout:events"
//
// Missing keys keep their defaults. Invalid values are reported with
// errors.ErrCodeInvalidConfig.
package config
