package template

// StyleCSS is shared by every chapter page of a packed book.
const StyleCSS = `
body > div {
  margin: 0 auto;
  padding: 0 1em;
  line-height: 1.5;
  text-align: justify;
}

h1 {
  text-align: center;
  font-size: 1.4em;
  margin: 1.5em auto;
  font-weight: bold;
}

p {
  text-indent: 1.5em;
  margin: 0.5em 0;
}

nav ol {
  list-style: none;
  padding-left: 0;
}

nav li {
  margin: 0.3em 0;
}

img {
  max-width: 100%;
  height: auto;
  display: block;
  margin: 1em auto;
}
`
