package rtabi

import (
	"io"
	"sort"
	"strings"
)

// Includes lists the C headers every generated file includes.
var Includes = []string{
	"stdarg.h",
	"stdbool.h",
	"stddef.h",
	"stdint.h",
	"stdio.h",
	"stdlib.h",
	"string.h",
}

// runtime is the C runtime shared by all programs. The type table it
// consults is emitted after the class declarations.
const runtime = `
typedef struct __object { int __id; } __object;

typedef struct __rtti_member {
	const char* name;
	int kind;
	size_t offset;
	void* fn;
} __rtti_member;

typedef struct __rtti_type {
	const char* name;
	int id;
	int base;
	int size;
	int nmembers;
	const __rtti_member* members;
	int nifaces;
	const int* ifaces;
} __rtti_type;

extern const __rtti_type __rtti_types[];
extern const int __rtti_count;

typedef struct __array {
	int len;
	int cap;
	int size;
	void* data;
} __array;

#define __ARRAY_AT(T, a, i) (((T*)(a)->data)[i])
#define __CMP(a, b) (((a) > (b)) - ((a) < (b)))
#define SCOPE(T, id) ((T*)__scope(alloca(sizeof(T)), sizeof(T), (id)))

static void* __alloc(size_t size, int id) {
	__object* o = (__object*)calloc(1, size);
	if (o == NULL) {
		fputs("out of memory\n", stderr);
		exit(2);
	}
	o->__id = id;
	return o;
}

static void* __scope(void* p, size_t size, int id) {
	memset(p, 0, size);
	((__object*)p)->__id = id;
	return p;
}

static const __rtti_type* __rtti_of(int id) {
	if (id < 0 || id >= __rtti_count || __rtti_types[id].name == NULL) {
		return NULL;
	}
	return &__rtti_types[id];
}

static int __is(const void* obj, int want) {
	if (obj == NULL) {
		return 0;
	}
	for (const __rtti_type* t = __rtti_of(((const __object*)obj)->__id); t != NULL; t = __rtti_of(t->base)) {
		if (t->id == want) {
			return 1;
		}
		for (int i = 0; i < t->nifaces; i++) {
			if (t->ifaces[i] == want) {
				return 1;
			}
		}
	}
	return 0;
}

static void* __as(void* obj, int want) {
	return __is(obj, want) ? obj : NULL;
}

static void* __rtti_find(const void* obj, const char* key) {
	if (obj == NULL) {
		return NULL;
	}
	for (const __rtti_type* t = __rtti_of(((const __object*)obj)->__id); t != NULL; t = __rtti_of(t->base)) {
		for (int i = 0; i < t->nmembers; i++) {
			const __rtti_member* m = &t->members[i];
			if (m->kind == 2 && strcmp(m->name, key) == 0) {
				return m->fn;
			}
		}
	}
	return NULL;
}

static void* __rtti_method(const void* obj, const char* key) {
	void* fn = __rtti_find(obj, key);
	if (fn == NULL) {
		fprintf(stderr, "no method %s\n", key);
		exit(2);
	}
	return fn;
}

static void __delete(void* obj) {
	if (obj == NULL) {
		return;
	}
	void (*dispose)(void*) = (void (*)(void*))__rtti_find(obj, "dispose");
	if (dispose != NULL) {
		dispose(obj);
	}
	free(obj);
}

static __array* __array_new(int len, int size) {
	__array* a = (__array*)calloc(1, sizeof(__array));
	a->len = len;
	a->cap = len > 0 ? len : 4;
	a->size = size;
	a->data = calloc((size_t)a->cap, (size_t)size);
	return a;
}

static void __array_push(__array* a, const void* v) {
	if (a->len == a->cap) {
		a->cap *= 2;
		a->data = realloc(a->data, (size_t)a->cap * (size_t)a->size);
	}
	memcpy((char*)a->data + (size_t)a->len * (size_t)a->size, v, (size_t)a->size);
	a->len++;
}

static void __array_free(__array* a) {
	if (a != NULL) {
		free(a->data);
		free(a);
	}
}

static int __str_cmp(const char* a, const char* b) {
	int c = strcmp(a, b);
	return (c > 0) - (c < 0);
}

static void __usage(const char* prog, const char* params) {
	fprintf(stderr, "usage: %s %s\n", prog, params);
	exit(1);
}
`

// Preamble writes the includes, the extra headers and the runtime to w.
// Extra headers are written once each, sorted.
func Preamble(w io.Writer, headers []string) error {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, h := range Includes {
		seen[h] = true
		b.WriteString("#include <" + h + ">\n")
	}
	b.WriteString("#if defined(_WIN32)\n#include <malloc.h>\n#else\n#include <alloca.h>\n#endif\n")

	extra := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" && !seen[h] {
			seen[h] = true
			extra = append(extra, h)
		}
	}
	sort.Strings(extra)
	for _, h := range extra {
		b.WriteString("#include <" + h + ">\n")
	}
	b.WriteString(runtime)
	_, err := io.WriteString(w, b.String())
	return err
}
