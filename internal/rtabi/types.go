package rtabi

// NoBase is the base id of a class without base class.
const NoBase = -1

// Member kinds of an RTTI member descriptor.
const (
	MemberField  = 1 // offset holds offsetof(struct, field)
	MemberMethod = 2 // fn holds the function pointer
	MemberStatic = 3 // fn holds the address of the static storage
)

// Exit status of a program started with missing arguments.
const ExitUsage = 1

// PromotedType returns the type a value of the C type t is passed as
// through "...": the default argument promotions.
func PromotedType(t string) string {
	switch t {
	case "bool", "char", "unsigned char", "signed char", "short", "unsigned short",
		"int8_t", "int16_t", "uint8_t", "uint16_t":
		return "int"
	case "float":
		return "double"
	}
	return t
}
