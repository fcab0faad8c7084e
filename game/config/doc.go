// Package config manages named rules variants for Slide Race.
//
// A variant is a JSON file in the rules directory describing one way to play:
// track length, dice faces, seat limits, and the board generator knobs. The
// Manager loads variants lazily, validates them on first use, and keeps them
// cached; classic.json is the default when it exists.
//
//	manager, err := config.NewManager("rules")
//	rules, err := manager.Load("sprint")
//	params := rules.BoardParams()
package config
