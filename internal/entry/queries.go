package entry

const getEntriesQuery = `query GetEntries($first: Int, $after: String, $tag: String, $categories: [String]) {
  getEntries(first: $first, after: $after, tag: $tag, categories: $categories) {
    edges {
      node {
        entryId
        frontMatter {
          title
          categories { name }
          tags { name }
        }
        created { name date }
        updated { name date }
      }
      cursor
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`

const getEntryQuery = `query GetEntry($entryId: ID!) {
  getEntry(entryId: $entryId) {
    entryId
    content
    frontMatter {
      title
      categories { name }
      tags { name }
    }
    created { name date }
    updated { name date }
  }
}`
