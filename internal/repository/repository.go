package repository

// postgres error code for unique constraint violation
const pgErrUniqueViolationCode = "23505"
