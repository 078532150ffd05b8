// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog models translation catalogues and reads and writes them.

A [Catalog] holds the translated messages of one locale. Each message is a
[Record] identified by a [Key] made of the context name, the English source
text and an optional disambiguation comment. Catalogues are immutable once
built; to change a catalogue, decode or build a new one.

# Formats

The primary format is the Qt Linguist TS file:

	<TS version="2.1" language="ja_JP">
	<context>
	    <name>ConfigDialog</name>
	    <message utf8="true">
	        <location filename="config_dialog.ui" line="32"/>
	        <source>Mozc Settings</source>
	        <translation>Mozc プロパティ</translation>
	    </message>
	</context>
	</TS>

Use [Decode] and [Encode] to read and write it. GNU gettext .po files can be
imported with [DecodePO]. [Open] and [OpenFS] choose the decoder from the
file name and transparently decompress files ending in ".zst".

# Warnings

Decoding never fails on content problems that leave the catalogue usable.
Duplicate keys (last one wins), placeholder mismatches and locale mismatches
are recorded as [Warning] values and reported by [Catalog.Warnings].
Structural problems and I/O failures are returned as a [*LoadError].
*/
package catalog
