// Package config provides the configuration system for Tilestorm.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TILESTORM_GRID_ROWS, TILESTORM_LOG_LEVEL, ...
//	├─────────────────────────────┤
//	│  2. Config File             │  ← tilestorm.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line arguments are applied by the caller on the returned Config.
//
// # Basic Usage
//
//	cfg, err := config.Load(config.WithFile("tilestorm.toml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Grid.Rows, cfg.Grid.Cols)
//
// # File Format
//
//	[grid]
//	rows = 10
//	cols = 10
//	cell_width = 2
//
//	[history]
//	max_entries = 0   # 0 means unbounded
//
//	[catalog]
//	path = "tiles.json"
//	watch = true
//
//	[scripts]
//	dir = "scripts"
//	instruction_limit = 1000000
//
//	[logging]
//	level = "info"
//	file = "tilestorm.log"
//
//	[ui]
//	background = "#1e1e2e"
//	grid_line = "#45475a"
//	cursor = "#f5e0dc"
package config
