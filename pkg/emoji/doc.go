// Package emoji turns a fetched emoji list into categories, applies the
// user's selection and derives safe file names.
package emoji
