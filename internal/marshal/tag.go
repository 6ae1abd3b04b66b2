package marshal

import "fmt"

// Tag is the leading byte of a record.
type Tag byte

const (
	TagNil        Tag = '0'  // 48
	TagNilLegacy  Tag = 0x00 // accepted as nil
	TagTrue       Tag = 'T'  // 84
	TagFalse      Tag = 'F'  // 70
	TagFixnum     Tag = 'i'  // 105
	TagBignum     Tag = 'l'  // 108
	TagString     Tag = '"'  // 34
	TagSymbol     Tag = ':'  // 58
	TagSymlink    Tag = ';'  // 59
	TagLink       Tag = '@'  // 64
	TagArray      Tag = '['  // 91
	TagHash       Tag = '{'  // 123
	TagStruct     Tag = 'S'  // 83
	TagIVar       Tag = 'I'  // 73
	TagExtObject  Tag = 'o'  // 111, extension placeholder
	TagExtTilde   Tag = '~'  // 126, extension placeholder
	TagExtDelete  Tag = 0x7f // 127, extension placeholder
)

var tagNames = map[Tag]string{
	TagNil:       "nil",
	TagNilLegacy: "nil",
	TagTrue:      "true",
	TagFalse:     "false",
	TagFixnum:    "fixnum",
	TagBignum:    "bignum",
	TagString:    "string",
	TagSymbol:    "symbol",
	TagSymlink:   "symlink",
	TagLink:      "link",
	TagArray:     "array",
	TagHash:      "hash",
	TagStruct:    "struct",
	TagIVar:      "ivar",
	TagExtObject: "ext_object",
	TagExtTilde:  "ext_tilde",
	TagExtDelete: "ext_delete",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(0x%02x)", byte(t))
}

// Known reports whether t is part of the supported tag set, including the
// extension placeholders.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}

// Extension reports whether t is one of the placeholder tags that only
// decode in relaxed mode.
func (t Tag) Extension() bool {
	return t == TagExtObject || t == TagExtTilde || t == TagExtDelete
}

// Registers reports whether a record with this tag takes a slot in the
// object back-reference table.
func (t Tag) Registers() bool {
	switch t {
	case TagString, TagBignum, TagArray, TagHash, TagStruct,
		TagExtObject, TagExtTilde, TagExtDelete:
		return true
	}
	return false
}
