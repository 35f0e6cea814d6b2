package course

// OwnedBy reports whether a record owned by recordUser belongs to userID.
// Lists are scoped by the bearer token, so a record without a user id is the
// caller's own.
func OwnedBy(recordUser, userID uint) bool {
	return recordUser == 0 || recordUser == userID
}
