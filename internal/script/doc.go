// Package script loads and runs batch rotation scripts.
//
// A script is a named list of steps written in JSONC or YAML. Each step is
// one operation on rotations (convert, reverse, compose, align or random)
// with its input given in any supported representation. Scripts are
// validated up front, then every step is queued on the interpreter and the
// results are collected in step order once the queue has been flushed.
//
// Example (YAML):
//
//	name: tensor frame
//	defaultOrder: zyz
//	steps:
//	  - op: convert
//	    to: quaternion
//	    euler: [0.3, 1.1, -0.7]
//	  - op: align
//	    vectors: [[1, 0, 0], [0, 0, 1]]
//	  - op: random
//	    count: 3
//	    seed: 42
package script
