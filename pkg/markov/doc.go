/*
Package markov provides a small, in-memory, first-order Markov chain over
whitespace-delimited words.

A Chain is trained by feeding it raw text. Every adjacent pair of words adds
one to the weight of the edge between them, and any word that directly
follows a sentence terminator (a word ending in ".") becomes eligible to
start a generated sentence. Generation walks the chain from a starting word,
picking each successor with probability proportional to its edge weight,
until it emits a terminator or reaches a word with no successors.

Chains can be persisted with the binary snapshot codec (MarshalBinary,
UnmarshalBinary, ToBytes, FromBytes) or inspected through the JSON export.
The package performs no file I/O of its own; see the store package for that.
*/
package markov
