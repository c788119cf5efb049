// Package odl parses PDS3 Object Description Language labels into the
// statement tree of package label.
//
// Only the label text is parsed. Input is cut at the first line holding the
// END statement so that data attached after the label is never lexed.
package odl
