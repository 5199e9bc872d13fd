// Package workflow sequences the document pipeline: read text, extract and
// score a container code, rename the file. Documents are processed one at a
// time in sorted path order, and a failure in one document never aborts the
// batch. Every document ends in exactly one terminal journal record.
package workflow
