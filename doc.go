/*
Package scf implements SCF, a simple columnar container format which stores
a table of string cells column by column, with a type tag and an
independently compressed body per column.

Data Structure Documentation

File

A file starts with a fixed preamble, followed by a header block which
describes every column and the compressed column bodies.

    File layout:
    +----------------+-------------+-----------------+-------------+---------------------+--------------+--------+--------------+
    | magic (8 bytes)| version (1) | compression (1) | zero (6)    | header length (8)   | header block | body 1 |  ...  body n |
    +----------------+-------------+-----------------+-------------+---------------------+--------------+--------+--------------+

The magic is "SCOLFMT\x00", the version is 1. The compression byte occupies
the first of seven reserved bytes, zero (the default) means zlib.

Header block

    +-----------------+-----------------+-------------------+-------+-------------------+
    | rows (8 bytes)  | columns (2)     | column record 1   |  ...  | column record n   |
    +-----------------+-----------------+-------------------+-------+-------------------+

    Column record:
    +---------------+------------+----------+-----------------------+---------------------+-------------------+
    | name len (2)  | name (var) | type (1) | uncompressed size (8) | compressed size (8) | body offset (8)   |
    +---------------+------------+----------+-----------------------+---------------------+-------------------+

Body offsets are relative to the start of the SCF stream, which is the
start of the file unless the stream was written at a later position. They
are unknown until all bodies have been compressed. On a seekable writer
zero placeholders are emitted first and patched afterwards, on any other
io.Writer the offsets are computed before writing the header.

Column bodies

Each body is the compressed form of a flat buffer, all integers are little-endian.

    Int32 (type 1):   | value 1 (4 bytes) | ... | value n (4 bytes) |        missing: -2147483648
    Float64 (type 2): | value 1 (8 bytes) | ... | value n (8 bytes) |        missing: NaN
    String (type 3):  | n (8) | offset 0 (8) | ... | offset n (8) | concatenated UTF-8 data |

A cell of an Int32 column which equals the sentinel, or a NaN cell of a Float64
column, cannot be told apart from a missing one and decodes as an empty string.
*/
package scf
