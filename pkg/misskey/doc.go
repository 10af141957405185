// Package misskey talks to the public custom-emoji endpoint of a Misskey
// compatible instance and fetches the image files it points at.
package misskey
