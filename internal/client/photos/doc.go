// Package photos removes the photo objects attached to a visit.
//
// Photos live in an S3-compatible bucket under "<userID>/<locationID>/".
// S3Store deletes every object under that prefix; the visit manager calls it
// in the background when an entry that carried photos is deleted.
package photos
