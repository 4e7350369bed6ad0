// SPDX-License-Identifier: EPL-2.0

// Package form models the BNI membership interview form: ten header
// fields, three preliminary notes, 23 fixed questions and attached photos.
//
// The JSON field names are shared with the analysis schema, so a model
// response can be decoded straight into a Data. Decoding into a value made
// by New keeps the defaults for any field the response leaves out.
package form
