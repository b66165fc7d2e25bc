// Package domain defines the core business entities of the vocabulary
// drilling application: vocabularies and their example sentences, the
// target-vocabulary quiz pool, the singleton user state and system
// configuration, and the append-only point and settlement audit records.
package domain
