// Package model holds the row shapes and inputs exchanged with the repositories.
package model
