// Package repository implements storage of the marketplace on PostgreSQL.
package repository

// pgErrUniqueViolationCode is postgres unique_violation error code
const pgErrUniqueViolationCode = "23505"
