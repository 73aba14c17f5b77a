// Package hebrew reduces Hebrew text to a canonical comparison form and
// provides the small set of Hebrew text utilities the content core needs
// (letter-based numerals, word extraction).
//
// Normalize is the single entry point used by search and matching. It is a
// pure function: total over every input, idempotent, and safe for concurrent
// use. The reduction, in order:
//
//  1. Canonical composition (NFC), so precomposed presentation forms and
//     decomposed input compare alike.
//  2. Removal of vowel points and cantillation (U+0591..U+05C7, except
//     maqaf).
//  3. Removal of geresh (U+05F3) and gershayim (U+05F4); maqaf (U+05BE)
//     becomes a plain space.
//  4. Final letter forms mapped to their base letters (ך→כ ם→מ ן→נ ף→פ ץ→צ).
//  5. ASCII case folding, a closing NFC pass, and whitespace trimming.
package hebrew
